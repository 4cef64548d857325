package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"gitsandbox/internal/config"
	"gitsandbox/internal/editor"
	"gitsandbox/internal/eventbus"
	"gitsandbox/internal/git"
	"gitsandbox/internal/pager"
	"gitsandbox/internal/render"
	"gitsandbox/internal/shell"
	"gitsandbox/internal/terminal"
	"gitsandbox/internal/vfs"
)

type flags struct {
	config      string
	root        string
	memory      bool
	debug       bool
	writeConfig bool
}

func parseFlags(args []string) (flags, error) {
	var f flags
	fs := pflag.NewFlagSet("gitsandbox", pflag.ContinueOnError)
	fs.StringVarP(&f.config, "config", "c", "", "configuration file (default $XDG_CONFIG_HOME/gitsandbox/config.toml)")
	fs.StringVarP(&f.root, "root", "r", "", "host directory backing the sandbox (default a temporary directory)")
	fs.BoolVar(&f.memory, "memory", false, "keep the sandbox in memory; git is unavailable")
	fs.BoolVar(&f.debug, "debug", false, "log every key and mode change")
	fs.BoolVar(&f.writeConfig, "write-config", false, "write the effective configuration and exit")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: gitsandbox [flags]\n\n%s", fs.FlagUsages())
	}
	return f, fs.Parse(args)
}

func main() {
	f, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	bus := eventbus.New()
	defer bus.Close()

	configSvc := config.NewConfigServiceWithBus(bus, f.config)
	cfg, err := configSvc.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg, f)

	if f.writeConfig {
		if err := configSvc.Save(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", configSvc.Path())
		return
	}

	// Set up logging
	if cfg.Log.File != "" {
		logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			log.Printf("Could not open log file: %v", err)
		} else {
			defer logFile.Close()
			log.SetOutput(logFile)
		}
	}
	log.Printf("Loaded config from %s", configSvc.Path())

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := run(ctx, cfg, bus, f.debug); err != nil {
		log.Printf("Error running shell: %v", err)
		fmt.Fprintf(os.Stderr, "Error running shell: %v\n", err)
		os.Exit(1)
	}
	log.Printf("Shell exited normally")
}

func applyFlags(cfg *config.Config, f flags) {
	if f.memory {
		cfg.Sandbox.Backend = "memory"
	}
	if f.root != "" {
		cfg.Sandbox.Backend = "directory"
		cfg.Sandbox.Root = f.root
	}
}

// openSandbox returns the sandbox and a cleanup func removing a temporary
// root
func openSandbox(cfg *config.Config) (*vfs.Sandbox, func(), error) {
	if cfg.Sandbox.Backend == "memory" {
		return vfs.NewMemory(), func() {}, nil
	}

	root := cfg.Sandbox.Root
	cleanup := func() {}
	if root == "" {
		dir, err := os.MkdirTemp("", "gitsandbox-*")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create sandbox directory: %w", err)
		}
		root = dir
		if !cfg.Sandbox.Keep {
			cleanup = func() {
				if err := os.RemoveAll(dir); err != nil {
					log.Printf("Failed to remove %s: %v", dir, err)
				}
			}
		}
	} else if err := os.MkdirAll(root, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create sandbox directory: %w", err)
	}

	sandbox, err := vfs.NewDirectory(root)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	log.Printf("Sandbox rooted at %s", sandbox.Root())
	return sandbox, cleanup, nil
}

func subscribeLogger(bus eventbus.EventBus) {
	bus.Subscribe(eventbus.EventCommandExecuted, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.CommandExecutedEvent); ok && !ev.Success {
			log.Printf("Command %q failed after %s: %s", ev.Line, ev.Duration, ev.Error)
		}
	})
	bus.Subscribe(eventbus.EventFilesystemChanged, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.FilesystemChangedEvent); ok {
			log.Printf("Sandbox changed: %s %v", ev.Op, ev.Paths)
		}
	})
	bus.Subscribe(eventbus.EventGitCommandExecuted, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.GitCommandExecutedEvent); ok && !ev.Success {
			log.Printf("git %v in %s exited %d: %s", ev.Args, ev.Dir, ev.ExitCode, ev.Error)
		}
	})
	bus.Subscribe(eventbus.EventError, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.ErrorEvent); ok {
			log.Printf("Error: %s: %v", ev.Message, ev.Err)
		}
	})
}

func run(ctx context.Context, cfg *config.Config, bus eventbus.EventBus, debug bool) error {
	subscribeLogger(bus)

	sandbox, cleanup, err := openSandbox(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	gitSvc := git.NewGitService(bus, sandbox, sandbox, git.Options{
		Binary:      cfg.Git.Binary,
		AuthorName:  cfg.Git.AuthorName,
		AuthorEmail: cfg.Git.AuthorEmail,
		Timeout:     cfg.Git.Timeout.Duration,
	})

	color := cfg.UI.Color && term.IsTerminal(int(os.Stdout.Fd()))
	tty := terminal.New(os.Stdin, os.Stdout)
	hosted := shell.NewHosted(tty,
		editor.New(editor.Options{TabWidth: cfg.Editor.TabWidth, LineNumbers: cfg.Editor.LineNumbers}, os.Stdin, os.Stdout),
		pager.New(color),
	)

	loop := shell.NewLoop()
	session := shell.NewSession(shell.Options{
		User:          cfg.Shell.User,
		Host:          cfg.Shell.Host,
		Home:          cfg.Shell.Home,
		Seed:          cfg.Sandbox.Seed,
		NoticeTimeout: cfg.UI.NoticeTimeout.Duration,
		ProbeAttempts: cfg.Git.ProbeAttempts,
		ProbeInterval: cfg.Git.ProbeInterval.Duration,
		Debug:         debug,
	}, shell.Deps{
		Echo:      render.New(tty.Output(), render.DefaultStyles(color)),
		Sandbox:   sandbox,
		Git:       gitSvc,
		Editor:    hosted.Editor(),
		Pager:     hosted.Pager(),
		Bus:       bus,
		Scheduler: loop,
		Color:     color,
	})

	err = tty.Start(
		func(k terminal.Key) { loop.Post(shell.KeyEvent{Key: k}) },
		func(err error) { loop.Post(shell.InputClosedEvent{Err: err}) },
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := tty.Close(); err != nil {
			log.Printf("Failed to restore terminal: %v", err)
		}
		fmt.Fprint(tty.Output(), "\r\n")
	}()

	if err := session.Start(ctx); err != nil {
		return err
	}
	if err := shell.Run(ctx, session, loop); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
