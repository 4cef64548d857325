package commands

import (
	"errors"
	"strings"

	"gitsandbox/internal/git"
)

// readOnly subcommands never touch the working tree
var readOnly = map[string]bool{
	"diff":   true,
	"log":    true,
	"show":   true,
	"status": true,
}

func registerGit(r *Registry) {
	r.Register(Command{
		Name:    "git",
		Usage:   "git <subcommand> [args...]",
		Summary: "Run a git command in the sandbox",
		Run:     runGit,
	})
}

func runGit(c *Call) error {
	if len(c.Args) == 0 || c.Args[0] == "help" || c.Args[0] == "--help" {
		c.Println("usage: git <subcommand> [args...]")
		c.Println()
		for _, name := range git.Subcommands() {
			d, _ := git.Describe(name)
			c.Printf("   %-10s %s\n", name, d)
		}
		return nil
	}
	if c.Env.Git == nil {
		return git.ErrUnavailable
	}

	sub := c.Args[0]
	res, err := c.Env.Git.Run(c.Ctx, git.Request{
		Dir:        c.Shell.Cwd(),
		Subcommand: sub,
		Args:       c.Args[1:],
	})
	if err != nil {
		if errors.Is(err, git.ErrUnavailable) {
			return usagef("git", "%v", err)
		}
		return err
	}

	c.Printf("%s", res.Output)
	if res.Output != "" && !strings.HasSuffix(res.Output, "\n") {
		c.Println()
	}
	if !readOnly[sub] {
		c.changed("git "+sub, c.Shell.Cwd())
	}
	return nil
}
