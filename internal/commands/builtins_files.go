package commands

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"gitsandbox/internal/vfs"
)

func registerFiles(r *Registry) {
	r.Register(Command{
		Name:    "ls",
		Usage:   "ls [-a] [path...]",
		Summary: "List directory contents",
		Run:     func(c *Call) error { return list(c, false) },
	})
	r.Register(Command{
		Name:    "ll",
		Usage:   "ll [path...]",
		Summary: "List directory contents in long format",
		Run:     func(c *Call) error { return list(c, true) },
	})
	r.Register(Command{
		Name:    "cat",
		Usage:   "cat <file...>",
		Summary: "Print file contents",
		Run:     cat,
	})
	r.Register(Command{
		Name:    "mkdir",
		Usage:   "mkdir [-p] <dir...>",
		Summary: "Create directories",
		Run:     mkdir,
	})
	r.Register(Command{
		Name:    "touch",
		Usage:   "touch <file...>",
		Summary: "Create empty files",
		Run:     touch,
	})
	r.Register(Command{
		Name:    "rm",
		Usage:   "rm [-rf] <path...>",
		Summary: "Remove files or directories",
		Run:     rm,
	})
	r.Register(Command{
		Name:    "less",
		Aliases: []string{"more"},
		Usage:   "less <file>",
		Summary: "View a file one screen at a time",
		Run:     page,
	})
}

// splitFlags separates single-dash short flags from operands. Unknown
// flags are a usage error.
func splitFlags(cmd string, args []string, allowed string) (map[rune]bool, []string, error) {
	flags := make(map[rune]bool)
	var operands []string
	for i, a := range args {
		if a == "--" {
			operands = append(operands, args[i+1:]...)
			break
		}
		if len(a) > 1 && a[0] == '-' {
			for _, f := range a[1:] {
				if !strings.ContainsRune(allowed, f) {
					return nil, nil, usagef(cmd, "invalid option -- '%c'", f)
				}
				flags[f] = true
			}
			continue
		}
		operands = append(operands, a)
	}
	return flags, operands, nil
}

func list(c *Call, long bool) error {
	flags, targets, err := splitFlags(c.Name, c.Args, "al")
	if err != nil {
		return err
	}
	long = long || flags['l']
	all := flags['a'] || long && c.Name == "ll"
	if len(targets) == 0 {
		targets = []string{"."}
	}

	for i, t := range targets {
		p := c.Path(t)
		e, err := c.Env.FS.Stat(c.Ctx, p)
		if err != nil {
			return err
		}
		if len(targets) > 1 {
			if i > 0 {
				c.Println()
			}
			c.Printf("%s:\n", t)
		}

		entries := []vfs.Entry{e}
		if e.IsDir {
			entries, err = c.Env.FS.List(c.Ctx, p)
			if err != nil {
				return err
			}
		}

		var names []string
		for _, e := range entries {
			if !all && strings.HasPrefix(e.Name, ".") {
				continue
			}
			if long {
				c.Println(longEntry(c, e))
				continue
			}
			names = append(names, shortEntry(c, e))
		}
		if len(names) > 0 {
			c.Println(strings.Join(names, "  "))
		}
	}
	return nil
}

func shortEntry(c *Call, e vfs.Entry) string {
	if e.IsDir {
		return style(c, dirStyle, e.Name+"/")
	}
	return e.Name
}

func longEntry(c *Call, e vfs.Entry) string {
	name := e.Name
	if e.IsDir {
		name = style(c, dirStyle, name+"/")
	}
	return fmt.Sprintf("%s %8d %s %s", e.Mode.String(), e.Size, e.ModTime.Format("Jan _2 15:04"), name)
}

func cat(c *Call) error {
	if len(c.Args) == 0 {
		return usagef("cat", "missing file operand")
	}
	for _, a := range c.Args {
		data, err := c.Env.FS.Read(c.Ctx, c.Path(a))
		if err != nil {
			return err
		}
		text := string(data)
		c.Printf("%s", text)
		if text != "" && !strings.HasSuffix(text, "\n") {
			c.Println()
		}
	}
	return nil
}

func mkdir(c *Call) error {
	flags, dirs, err := splitFlags("mkdir", c.Args, "p")
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		return usagef("mkdir", "missing operand")
	}

	var made []string
	for _, d := range dirs {
		p := c.Path(d)
		if err := c.Env.FS.Mkdir(c.Ctx, p, flags['p']); err != nil {
			return err
		}
		made = append(made, p)
	}
	c.changed("mkdir", made...)
	return nil
}

func touch(c *Call) error {
	if len(c.Args) == 0 {
		return usagef("touch", "missing file operand")
	}

	var created []string
	for _, a := range c.Args {
		p := c.Path(a)
		_, err := c.Env.FS.Stat(c.Ctx, p)
		if err == nil {
			continue
		}
		if !errors.Is(err, vfs.ErrNotFound) {
			return err
		}
		if err := c.Env.FS.Write(c.Ctx, p, nil); err != nil {
			return err
		}
		created = append(created, p)
	}
	if len(created) > 0 {
		c.changed("touch", created...)
	}
	return nil
}

func rm(c *Call) error {
	flags, targets, err := splitFlags("rm", c.Args, "rRf")
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return usagef("rm", "missing operand")
	}
	recursive := flags['r'] || flags['R']

	var removed []string
	for _, t := range targets {
		p := c.Path(t)
		if b := path.Base(t); b == "." || b == ".." || p == "/" {
			return usagef("rm", "refusing to remove '%s'", t)
		}
		if cwd := c.Shell.Cwd(); cwd == p || strings.HasPrefix(cwd, p+"/") {
			return usagef("rm", "cannot remove '%s': it holds the working directory", t)
		}
		err := c.Env.FS.Remove(c.Ctx, p, recursive)
		if errors.Is(err, vfs.ErrNotFound) && flags['f'] {
			continue
		}
		if errors.Is(err, vfs.ErrIsDir) {
			return usagef("rm", "cannot remove '%s': Is a directory", t)
		}
		if err != nil {
			return err
		}
		removed = append(removed, p)
	}
	if len(removed) > 0 {
		c.changed("rm", removed...)
	}
	return nil
}

func page(c *Call) error {
	if len(c.Args) != 1 {
		return usagef(c.Name, "usage: %s <file>", c.Name)
	}
	p := c.Path(c.Args[0])
	data, err := c.Env.FS.Read(c.Ctx, p)
	if err != nil {
		return err
	}
	if c.Env.Pager == nil {
		c.Printf("%s", data)
		return nil
	}
	return c.Env.Pager.Page(c.Ctx, path.Base(p), string(data))
}
