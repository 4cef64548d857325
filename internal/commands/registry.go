package commands

import (
	"context"
	"fmt"
	"io"
	"sort"

	"gitsandbox/internal/eventbus"
	"gitsandbox/internal/git"
	"gitsandbox/internal/vfs"
)

// Shell is the session state commands may read and change
type Shell interface {
	Cwd() string
	SetCwd(dir string)
	Clear()
	ResetSandbox(ctx context.Context) error
	ToggleDebug() bool
	DebugInfo() []string
}

// Editor opens a file for editing; save writes the edited text back
type Editor interface {
	Edit(ctx context.Context, filename, content string, save func(string) error) error
}

// Pager shows long text one screen at a time
type Pager interface {
	Page(ctx context.Context, title, content string) error
}

// HistoryLog gives read access to accepted commands, oldest first
type HistoryLog interface {
	Entries() []string
}

// Env holds the collaborators handlers use
type Env struct {
	FS      vfs.FS
	Git     git.Engine
	Editor  Editor
	Pager   Pager
	History HistoryLog
	Bus     eventbus.EventBus
	Home    string
	Color   bool
}

// Call is one handler invocation
type Call struct {
	Ctx   context.Context
	Name  string
	Args  []string
	Out   io.Writer
	Shell Shell
	Env   *Env
}

// Path resolves a user supplied path against the working directory
func (c *Call) Path(p string) string {
	return vfs.Resolve(c.Env.Home, c.Shell.Cwd(), p)
}

// Display shortens an absolute path for output
func (c *Call) Display(p string) string {
	return vfs.Display(c.Env.Home, p)
}

func (c *Call) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Call) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// changed announces a sandbox modification
func (c *Call) changed(op string, paths ...string) {
	if c.Env.Bus != nil {
		c.Env.Bus.Publish(eventbus.FilesystemChangedEvent{Op: op, Paths: paths})
	}
}

// Handler runs a command
type Handler func(c *Call) error

// Command describes a registered command
type Command struct {
	Name    string
	Aliases []string
	Usage   string
	Summary string
	Run     Handler
}

// Registry maps command names and aliases to commands
type Registry struct {
	commands map[string]*Command
	primary  []*Command
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]*Command)}
}

// Register adds cmd under its name and aliases, replacing earlier entries
func (r *Registry) Register(cmd Command) {
	c := &cmd
	if _, exists := r.commands[c.Name]; !exists {
		r.primary = append(r.primary, c)
	} else {
		for i, p := range r.primary {
			if p.Name == c.Name {
				r.primary[i] = c
			}
		}
	}
	r.commands[c.Name] = c
	for _, alias := range c.Aliases {
		r.commands[alias] = c
	}
}

// Lookup finds a command by name or alias
func (r *Registry) Lookup(name string) (*Command, bool) {
	c, ok := r.commands[name]
	return c, ok
}

// Names returns every name and alias, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Commands returns the registered commands sorted by name
func (r *Registry) Commands() []*Command {
	out := make([]*Command, len(r.primary))
	copy(out, r.primary)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Default returns a registry with every builtin
func Default() *Registry {
	r := NewRegistry()
	registerShell(r)
	registerFiles(r)
	registerEdit(r)
	registerGit(r)
	return r
}
