// Package pager shows long text full screen for less and more.
package pager

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))

// Pager runs ov over a string
type Pager struct {
	color bool
	run   func(root *oviewer.Root) error
}

// New creates a pager; color styles the title line
func New(color bool) *Pager {
	return &Pager{
		color: color,
		run:   func(root *oviewer.Root) error { return root.Run() },
	}
}

// Page blocks until the user leaves the pager
func (p *Pager) Page(ctx context.Context, title, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	root, err := oviewer.NewRoot(strings.NewReader(p.document(title, content)))
	if err != nil {
		return fmt.Errorf("failed to open pager: %w", err)
	}

	// leave nothing behind on the shell's screen
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	vimKeys(&config)
	root.SetConfig(config)

	if err := p.run(root); err != nil {
		return fmt.Errorf("pager failed: %w", err)
	}
	return nil
}

// document puts the title above the content, followed by a rule
func (p *Pager) document(title, content string) string {
	if title == "" {
		return content
	}
	heading := title
	if p.color {
		heading = titleStyle.Render(title)
	}
	rule := strings.Repeat("─", lipgloss.Width(title))
	return heading + "\n" + rule + "\n" + content
}

// vimKeys adds j/k/g/G on top of ov's defaults
func vimKeys(config *oviewer.Config) {
	if config.Keybind == nil {
		config.Keybind = make(map[string][]string)
	}
	add := func(action string, keys ...string) {
		config.Keybind[action] = append(config.Keybind[action], keys...)
	}
	add("down", "j")
	add("up", "k")
	add("top", "g")
	add("bottom", "G")
	add("exit", "q")
}
