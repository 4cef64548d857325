package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/sahilm/fuzzy"

	"gitsandbox/internal/eventbus"
)

// Output receives command output and error lines
type Output interface {
	io.Writer
	Error(msg string)
}

// Dispatcher routes accepted lines to command handlers. It is the one place
// where handler errors become visible error lines.
type Dispatcher struct {
	registry *Registry
	env      *Env
}

// NewDispatcher creates a dispatcher over the registry
func NewDispatcher(registry *Registry, env *Env) *Dispatcher {
	return &Dispatcher{registry: registry, env: env}
}

// Registry returns the command registry
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Dispatch runs line. It only returns ErrExit; every other failure is
// written to out as an error line.
func (d *Dispatcher) Dispatch(ctx context.Context, line string, sh Shell, out Output) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}

	start := time.Now()
	name, err := d.run(ctx, trimmed, sh, out)

	if d.env.Bus != nil {
		event := eventbus.CommandExecutedEvent{
			Line:     trimmed,
			Name:     name,
			Success:  err == nil,
			Duration: time.Since(start),
		}
		if err != nil {
			event.Error = err.Error()
		}
		d.env.Bus.Publish(event)
	}

	if errors.Is(err, ErrExit) {
		return ErrExit
	}
	return nil
}

func (d *Dispatcher) run(ctx context.Context, line string, sh Shell, out Output) (string, error) {
	stages := splitPipe(line)
	switch len(stages) {
	case 1:
	case 2:
		return d.pipe(ctx, stages[0], stages[1], sh, out)
	default:
		err := errors.New("only a single pipe stage is supported")
		out.Error("pipe: " + err.Error())
		return "pipe", err
	}

	args, err := shlex.Split(line)
	if err != nil {
		out.Error(fmt.Sprintf("syntax error: %v", err))
		return "", err
	}
	if len(args) == 0 {
		return "", nil
	}
	name := args[0]

	cmd, ok := d.registry.Lookup(name)
	if !ok {
		err := fmt.Errorf("%s: command not found", name)
		out.Error(err.Error())
		if hint := d.suggest(name); hint != "" {
			fmt.Fprintf(out, "Did you mean '%s'?\n", hint)
		}
		return name, err
	}

	call := &Call{Ctx: ctx, Name: name, Args: args[1:], Out: out, Shell: sh, Env: d.env}
	if err := d.invoke(call, cmd.Run); err != nil {
		if !errors.Is(err, ErrExit) {
			out.Error(errorLine(name, d.env.Home, err))
		}
		return name, err
	}
	return name, nil
}

// invoke runs a handler, turning a panic into an error
func (d *Dispatcher) invoke(call *Call, run func(*Call) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("command %s panicked: %v\nStack: %s", call.Name, r, debug.Stack())
			err = errors.New("internal error")
			if d.env.Bus != nil {
				d.env.Bus.Publish(eventbus.ErrorEvent{
					Message: fmt.Sprintf("command %s panicked: %v", call.Name, r),
					Err:     err,
				})
			}
		}
	}()
	return run(call)
}

// splitPipe cuts line at every '|' outside quotes. Quoting follows shlex,
// so "a|b" and a\|b stay inside one word.
func splitPipe(line string) []string {
	var stages []string
	var quote rune
	escaped := false
	start := 0
	for i, r := range line {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '|':
			stages = append(stages, line[start:i])
			start = i + 1
		}
	}
	return append(stages, line[start:])
}

// suggest returns the closest registered name, if any
func (d *Dispatcher) suggest(name string) string {
	matches := fuzzy.Find(name, d.registry.Names())
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}
