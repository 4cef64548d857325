// Package editor is the full-screen file editor behind the edit command.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"
)

// Editor runs a Widget as a full-screen program on the terminal
type Editor struct {
	opts Options
	in   io.Reader
	out  io.Writer
}

// New creates an editor reading keys from in and drawing to out
func New(opts Options, in io.Reader, out io.Writer) *Editor {
	return &Editor{opts: opts, in: in, out: out}
}

// Edit opens content under filename and blocks until the user closes the
// editor. Every ctrl+s hands the current text to save.
func (e *Editor) Edit(ctx context.Context, filename, content string, save func(string) error) error {
	w := NewWidget(e.opts)
	w.Open(filename, content)
	m := newModel(w, save)

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(e.in),
		tea.WithOutput(e.out),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to run editor: %w", err)
	}

	log.Printf("editor closed %s (dirty=%v)", filename, m.dirty())
	if m.err != nil && m.dirty() {
		return fmt.Errorf("changes to %s were not saved: %w", filename, m.err)
	}
	return nil
}
