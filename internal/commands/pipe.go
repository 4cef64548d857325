package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/shlex"

	"gitsandbox/internal/history"
	"gitsandbox/internal/search"
)

// producer generates the lines fed into a pipe's filter stage
type producer func(c *Call) ([]string, error)

var producers = map[string]producer{
	"history": historyLines,
	"ls":      listLines,
}

// pipe runs "producer | grep pattern". Output is written only once both
// stages succeed.
func (d *Dispatcher) pipe(ctx context.Context, left, right string, sh Shell, out Output) (string, error) {
	src, err := shlex.Split(left)
	if err != nil || len(src) == 0 {
		err = fmt.Errorf("missing command before '|'")
		out.Error("pipe: " + err.Error())
		return "pipe", err
	}
	filter, err := shlex.Split(right)
	if err != nil || len(filter) == 0 {
		err = fmt.Errorf("missing command after '|'")
		out.Error("pipe: " + err.Error())
		return src[0], err
	}

	produce, ok := producers[src[0]]
	if !ok {
		err := fmt.Errorf("%s: cannot be used as a pipe source", src[0])
		out.Error(err.Error())
		return src[0], err
	}
	if filter[0] != "grep" {
		err := fmt.Errorf("%s: unsupported pipe filter, only grep is available", filter[0])
		out.Error(err.Error())
		return src[0], err
	}
	if len(filter) != 2 {
		err := usagef("grep", "usage: grep <pattern>")
		out.Error(err.Error())
		return src[0], err
	}
	pattern := unquote(filter[1])

	call := &Call{Ctx: ctx, Name: src[0], Args: src[1:], Out: out, Shell: sh, Env: d.env}
	var lines []string
	err = d.invoke(call, func(c *Call) (err error) {
		lines, err = produce(c)
		return err
	})
	if err != nil {
		out.Error(errorLine(src[0], d.env.Home, err))
		return src[0], err
	}

	var b strings.Builder
	for _, l := range lines {
		if search.Contains(l, pattern) {
			b.WriteString(l)
			b.WriteByte('\n')
		}
	}
	fmt.Fprint(out, b.String())
	return src[0], nil
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func historyLines(c *Call) ([]string, error) {
	if len(c.Args) > 0 {
		return nil, usagef("history", "too many arguments")
	}
	entries := c.Env.History.Entries()
	lines := make([]string, len(entries))
	for i, cmd := range entries {
		lines[i] = history.Numbered(i, cmd)
	}
	return lines, nil
}

func listLines(c *Call) ([]string, error) {
	dir := c.Shell.Cwd()
	switch len(c.Args) {
	case 0:
	case 1:
		dir = c.Path(c.Args[0])
	default:
		return nil, usagef("ls", "only one directory can be piped")
	}

	entries, err := c.Env.FS.List(c.Ctx, dir)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name, ".") {
			continue
		}
		lines = append(lines, e.Name)
	}
	return lines, nil
}
