package git

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path"
	"strings"
	"time"

	"gitsandbox/internal/eventbus"
	"gitsandbox/internal/vfs"
)

// Engine is the version-control collaborator
type Engine interface {
	Available(ctx context.Context) error
	FindRoot(ctx context.Context, dir string) (string, error)
	Run(ctx context.Context, req Request) (Result, error)
}

// Request is one git invocation from the sandbox working directory Dir
type Request struct {
	Dir        string
	Subcommand string
	Args       []string
}

// Result carries the combined output of a finished git process
type Result struct {
	Output   string
	ExitCode int
}

// PathMapper maps sandbox paths to host paths
type PathMapper interface {
	RealPath(p string) (string, bool)
}

// Options configures the git service
type Options struct {
	Binary      string
	AuthorName  string
	AuthorEmail string
	Timeout     time.Duration
}

// Service runs the git binary inside the host directory backing the
// sandbox
type Service struct {
	bus        eventbus.EventBus
	fs         vfs.FS
	paths      PathMapper
	opts       Options
	lookPath   func(string) (string, error)
	workerPool chan struct{} // Semaphore for limiting concurrent git operations
}

// NewGitService creates a new git service. paths may be nil, in which case
// git is never available.
func NewGitService(bus eventbus.EventBus, fsys vfs.FS, paths PathMapper, opts Options) *Service {
	if opts.Binary == "" {
		opts.Binary = "git"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Service{
		bus:        bus,
		fs:         fsys,
		paths:      paths,
		opts:       opts,
		lookPath:   exec.LookPath,
		workerPool: make(chan struct{}, 1),
	}
}

// Available reports whether git commands can run: the binary must be on
// PATH and the sandbox must live on disk
func (gs *Service) Available(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if gs.paths == nil {
		return fmt.Errorf("%w: the sandbox has no host directory", ErrUnavailable)
	}
	if _, ok := gs.paths.RealPath("/"); !ok {
		return fmt.Errorf("%w: the sandbox has no host directory", ErrUnavailable)
	}
	if _, err := gs.lookPath(gs.opts.Binary); err != nil {
		return fmt.Errorf("%w: %s not found in PATH", ErrUnavailable, gs.opts.Binary)
	}
	return nil
}

// FindRoot walks up from dir until it finds a directory holding .git
func (gs *Service) FindRoot(ctx context.Context, dir string) (string, error) {
	cur := path.Clean("/" + dir)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if _, err := gs.fs.Stat(ctx, path.Join(cur, ".git")); err == nil {
			return cur, nil
		} else if !errors.Is(err, vfs.ErrNotFound) && !errors.Is(err, vfs.ErrNotDir) {
			return "", fmt.Errorf("failed to look for repository: %w", err)
		}
		if cur == "/" {
			return "", ErrNotRepository
		}
		cur = path.Dir(cur)
	}
}

// Run executes one supported subcommand. A non-zero exit status is not an
// error: git already explains itself in the output.
func (gs *Service) Run(ctx context.Context, req Request) (Result, error) {
	if !Supported(req.Subcommand) {
		return Result{}, &UnknownSubcommandError{Name: req.Subcommand}
	}
	if err := gs.Available(ctx); err != nil {
		return Result{}, err
	}
	if req.Subcommand != "init" {
		if _, err := gs.FindRoot(ctx, req.Dir); err != nil {
			return Result{}, err
		}
	}

	workDir, ok := gs.paths.RealPath(req.Dir)
	if !ok {
		return Result{}, fmt.Errorf("%w: cannot map %s", ErrUnavailable, req.Dir)
	}
	root, _ := gs.paths.RealPath("/")

	// Acquire worker slot
	select {
	case gs.workerPool <- struct{}{}:
		defer func() { <-gs.workerPool }()
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	ctx, cancel := context.WithTimeout(ctx, gs.opts.Timeout)
	defer cancel()

	startTime := time.Now()
	args := append([]string{
		"--no-pager",
		"-c", "color.ui=false",
		"-c", "init.defaultBranch=main",
		"-c", "advice.detachedHead=false",
		req.Subcommand,
	}, req.Args...)

	cmd := exec.CommandContext(ctx, gs.opts.Binary, args...)
	cmd.Dir = workDir
	cmd.Env = gs.env(root)

	output, err := cmd.CombinedOutput()
	duration := time.Since(startTime).Milliseconds()
	text := scrub(string(output), root)

	result := Result{Output: text}
	var exitErr *exec.ExitError
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		err = fmt.Errorf("git %s timed out after %s", req.Subcommand, gs.opts.Timeout)
	case ctx.Err() != nil:
		err = ctx.Err()
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		err = nil
	case err != nil:
		err = fmt.Errorf("failed to run git %s: %w", req.Subcommand, err)
	}

	// Emit command log event
	event := eventbus.GitCommandExecutedEvent{
		Dir:      req.Dir,
		Args:     append([]string{req.Subcommand}, req.Args...),
		Success:  err == nil && result.ExitCode == 0,
		ExitCode: result.ExitCode,
		Output:   text,
		Duration: duration,
	}
	if err != nil {
		event.Error = err.Error()
		log.Printf("git %s in %s failed: %v", req.Subcommand, req.Dir, err)
	}
	if gs.bus != nil {
		gs.bus.Publish(event)
	}

	return result, err
}

// env isolates git from the user's own configuration
func (gs *Service) env(home string) []string {
	env := []string{
		"HOME=" + home,
		"GIT_CONFIG_NOSYSTEM=1",
		"GIT_TERMINAL_PROMPT=0",
		"GIT_AUTHOR_NAME=" + gs.opts.AuthorName,
		"GIT_AUTHOR_EMAIL=" + gs.opts.AuthorEmail,
		"GIT_COMMITTER_NAME=" + gs.opts.AuthorName,
		"GIT_COMMITTER_EMAIL=" + gs.opts.AuthorEmail,
		"GIT_EDITOR=true",
		"LANG=C",
	}
	if p, ok := os.LookupEnv("PATH"); ok {
		env = append(env, "PATH="+p)
	}
	return env
}

// scrub hides the host location of the sandbox from git's output
func scrub(output, root string) string {
	if root == "" || root == "/" {
		return output
	}
	return strings.ReplaceAll(output, root, "")
}
