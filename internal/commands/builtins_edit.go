package commands

import (
	"errors"
	"path"

	"gitsandbox/internal/vfs"
)

func registerEdit(r *Registry) {
	r.Register(Command{
		Name:    "edit",
		Aliases: []string{"vi", "vim", "nano"},
		Usage:   "edit <file>",
		Summary: "Open a file in the editor (Ctrl+S saves, Esc closes)",
		Run:     edit,
	})
}

func edit(c *Call) error {
	if len(c.Args) != 1 {
		return usagef(c.Name, "usage: %s <file>", c.Name)
	}
	if c.Env.Editor == nil {
		return usagef(c.Name, "no editor available")
	}
	p := c.Path(c.Args[0])

	var content string
	data, err := c.Env.FS.Read(c.Ctx, p)
	switch {
	case err == nil:
		content = string(data)
	case errors.Is(err, vfs.ErrNotFound):
		// a new file is created on the first save
		if _, err := c.Env.FS.Stat(c.Ctx, path.Dir(p)); err != nil {
			return err
		}
	default:
		return err
	}

	save := func(text string) error {
		if err := c.Env.FS.Write(c.Ctx, p, []byte(text)); err != nil {
			return err
		}
		c.changed("write", p)
		return nil
	}
	return c.Env.Editor.Edit(c.Ctx, p, content, save)
}
