package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitsandbox/internal/vfs"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	dirStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var keyHelp = [][2]string{
	{"Enter", "run the command"},
	{"Backspace", "delete the character left of the cursor"},
	{"← →", "move the cursor"},
	{"↑ ↓", "browse command history"},
	{"Tab", "complete commands, git subcommands and file names"},
	{"Ctrl+R", "search history, again for the next match"},
	{"Ctrl+C, Esc", "cancel the line or the search"},
}

func registerShell(r *Registry) {
	r.Register(Command{
		Name:    "help",
		Usage:   "help [command]",
		Summary: "Show available commands",
		Run:     func(c *Call) error { return help(c, r) },
	})
	r.Register(Command{
		Name:    "pwd",
		Usage:   "pwd",
		Summary: "Print the working directory",
		Run: func(c *Call) error {
			c.Println(c.Shell.Cwd())
			return nil
		},
	})
	r.Register(Command{
		Name:    "cd",
		Usage:   "cd [dir]",
		Summary: "Change the working directory",
		Run:     cd,
	})
	r.Register(Command{
		Name:    "clear",
		Usage:   "clear",
		Summary: "Clear the screen",
		Run: func(c *Call) error {
			c.Shell.Clear()
			return nil
		},
	})
	r.Register(Command{
		Name:    "reset",
		Usage:   "reset",
		Summary: "Restore the sandbox to its starting files",
		Run: func(c *Call) error {
			if err := c.Shell.ResetSandbox(c.Ctx); err != nil {
				return fmt.Errorf("failed to reset sandbox: %w", err)
			}
			c.changed("reset", "/")
			return nil
		},
	})
	r.Register(Command{
		Name:    "history",
		Usage:   "history",
		Summary: "List previously run commands",
		Run: func(c *Call) error {
			lines, err := historyLines(c)
			if err != nil {
				return err
			}
			for _, l := range lines {
				c.Println(l)
			}
			return nil
		},
	})
	r.Register(Command{
		Name:    "debug",
		Usage:   "debug",
		Summary: "Toggle key tracing and show session state",
		Run: func(c *Call) error {
			on := c.Shell.ToggleDebug()
			state := "off"
			if on {
				state = "on"
			}
			c.Printf("debug tracing %s\n", state)
			for _, l := range c.Shell.DebugInfo() {
				c.Println("  " + l)
			}
			return nil
		},
	})
	r.Register(Command{
		Name:    "exit",
		Aliases: []string{"logout"},
		Usage:   "exit",
		Summary: "Leave the sandbox",
		Run:     func(*Call) error { return ErrExit },
	})
}

func help(c *Call, r *Registry) error {
	if len(c.Args) > 0 {
		cmd, ok := r.Lookup(c.Args[0])
		if !ok {
			return usagef("help", "no help for '%s'", c.Args[0])
		}
		c.Printf("%s\n  %s\n", cmd.Usage, cmd.Summary)
		if len(cmd.Aliases) > 0 {
			c.Printf("  aliases: %s\n", strings.Join(cmd.Aliases, ", "))
		}
		return nil
	}

	c.Println(style(c, headingStyle, "Commands"))
	for _, cmd := range r.Commands() {
		c.Printf("  %-22s %s\n", cmd.Usage, cmd.Summary)
	}
	c.Println()
	c.Println(style(c, headingStyle, "Keys"))
	for _, k := range keyHelp {
		c.Printf("  %-22s %s\n", k[0], k[1])
	}
	c.Println()
	c.Println(style(c, dimStyle, "Pipe one command into grep: history | grep git"))
	return nil
}

func cd(c *Call) error {
	if len(c.Args) > 1 {
		return usagef("cd", "too many arguments")
	}
	target := c.Env.Home
	if len(c.Args) == 1 {
		target = c.Path(c.Args[0])
	}

	e, err := c.Env.FS.Stat(c.Ctx, target)
	if err != nil {
		return err
	}
	if !e.IsDir {
		return &vfs.PathError{Op: "cd", Path: target, Err: vfs.ErrNotDir}
	}
	c.Shell.SetCwd(target)
	return nil
}

func style(c *Call, s lipgloss.Style, text string) string {
	if !c.Env.Color {
		return text
	}
	return s.Render(text)
}
