package shell

import (
	"context"
	"fmt"

	"gitsandbox/internal/commands"
)

// Host is the part of the terminal a full-screen program borrows
type Host interface {
	Release() error
	Restore() error
}

// Hosted wraps an editor and a pager so they run with the terminal
// released, and the input pump is back in raw mode once they return
type Hosted struct {
	host   Host
	editor commands.Editor
	pager  commands.Pager
}

// NewHosted wraps editor and pager around host. Either may be nil.
func NewHosted(host Host, editor commands.Editor, pager commands.Pager) *Hosted {
	return &Hosted{host: host, editor: editor, pager: pager}
}

// Editor returns the wrapped editor, or nil when there is none
func (h *Hosted) Editor() commands.Editor {
	if h.editor == nil {
		return nil
	}
	return hostedEditor{h}
}

// Pager returns the wrapped pager, or nil when there is none
func (h *Hosted) Pager() commands.Pager {
	if h.pager == nil {
		return nil
	}
	return hostedPager{h}
}

func (h *Hosted) borrow(run func() error) (err error) {
	if err := h.host.Release(); err != nil {
		return fmt.Errorf("failed to release terminal: %w", err)
	}
	defer func() {
		if rerr := h.host.Restore(); rerr != nil && err == nil {
			err = fmt.Errorf("failed to restore terminal: %w", rerr)
		}
	}()
	return run()
}

type hostedEditor struct{ h *Hosted }

func (e hostedEditor) Edit(ctx context.Context, filename, content string, save func(string) error) error {
	return e.h.borrow(func() error {
		return e.h.editor.Edit(ctx, filename, content, save)
	})
}

type hostedPager struct{ h *Hosted }

func (p hostedPager) Page(ctx context.Context, title, content string) error {
	return p.h.borrow(func() error {
		return p.h.pager.Page(ctx, title, content)
	})
}
