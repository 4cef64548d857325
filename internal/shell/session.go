package shell

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gitsandbox/internal/commands"
	"gitsandbox/internal/completion"
	"gitsandbox/internal/eventbus"
	"gitsandbox/internal/git"
	"gitsandbox/internal/history"
	"gitsandbox/internal/input"
	"gitsandbox/internal/input/types"
	"gitsandbox/internal/linebuf"
	"gitsandbox/internal/render"
	"gitsandbox/internal/vfs"
)

// Sandbox is the filesystem the session runs against
type Sandbox interface {
	vfs.FS
	Reset(ctx context.Context) error
	Backend() vfs.Backend
}

// Scheduler posts an event after a delay
type Scheduler interface {
	After(d time.Duration, ev Event)
}

// Options configures a session
type Options struct {
	User          string
	Host          string
	Home          string
	Seed          bool
	NoticeTimeout time.Duration
	ProbeAttempts int
	ProbeInterval time.Duration
	Debug         bool
}

// Session owns all editing state: the edit line, the history log, the
// input mode and the working directory. Only the loop goroutine calls into
// it, so none of it is locked.
type Session struct {
	opts       Options
	line       *linebuf.EditLine
	hist       *history.Store
	input      *input.Handler
	echo       *render.Echo
	completer  *completion.Resolver
	dispatcher *commands.Dispatcher
	sandbox    Sandbox
	git        git.Engine
	bus        eventbus.EventBus
	scheduler  Scheduler

	cwd       string
	debug     bool
	gitStatus string
	noticeSeq int
	exited    bool
}

// Deps are the collaborators a session is built from
type Deps struct {
	Echo      *render.Echo
	Sandbox   Sandbox
	Git       git.Engine
	Editor    commands.Editor
	Pager     commands.Pager
	Bus       eventbus.EventBus
	Scheduler Scheduler
	Color     bool
}

// NewSession wires a session together
func NewSession(opts Options, deps Deps) *Session {
	if opts.Home == "" {
		opts.Home = "/home/user"
	}
	if opts.NoticeTimeout <= 0 {
		opts.NoticeTimeout = 1500 * time.Millisecond
	}

	s := &Session{
		opts:      opts,
		line:      linebuf.New(),
		hist:      history.NewStore(),
		input:     input.New(),
		echo:      deps.Echo,
		sandbox:   deps.Sandbox,
		git:       deps.Git,
		bus:       deps.Bus,
		scheduler: deps.Scheduler,
		cwd:       opts.Home,
		debug:     opts.Debug,
		gitStatus: "probing",
	}

	registry := commands.Default()
	s.dispatcher = commands.NewDispatcher(registry, &commands.Env{
		FS:      deps.Sandbox,
		Git:     deps.Git,
		Editor:  deps.Editor,
		Pager:   deps.Pager,
		History: s.hist,
		Bus:     deps.Bus,
		Home:    opts.Home,
		Color:   deps.Color,
	})
	s.completer = completion.NewResolver(registry.Names, "git", git.Subcommands(), deps.Sandbox)
	return s
}

// Start seeds the sandbox, schedules the git probe and draws the first
// prompt
func (s *Session) Start(ctx context.Context) error {
	if s.opts.Seed {
		if err := vfs.Seed(ctx, s.sandbox, s.opts.Home); err != nil {
			return err
		}
	} else if err := s.sandbox.Mkdir(ctx, s.opts.Home, true); err != nil {
		return fmt.Errorf("failed to create home: %w", err)
	}

	if s.git != nil {
		s.scheduler.After(0, TimerEvent{Kind: TimerGitProbe, Seq: 1})
	}
	s.echo.Prompt(s.prompt())
	return nil
}

// Handle processes one event. It returns false once the session is over.
func (s *Session) Handle(ctx context.Context, ev Event) bool {
	switch ev := ev.(type) {
	case KeyEvent:
		s.handleKey(ctx, ev)
	case TimerEvent:
		s.handleTimer(ctx, ev)
	case InputClosedEvent:
		if ev.Err != nil {
			log.Printf("input closed: %v", ev.Err)
		}
		return false
	}
	return !s.exited
}

func (s *Session) handleKey(ctx context.Context, ev KeyEvent) {
	before := s.input.CurrentMode()
	if s.debug {
		log.Printf("key %s in %s mode, line %q cursor %d", ev.Key, before, s.line.Text(), s.line.Cursor())
	}

	for _, action := range s.input.HandleKey(ev.Key, s) {
		s.apply(ctx, action)
		if s.exited {
			return
		}
	}

	if after := s.input.CurrentMode(); after != before {
		if s.debug {
			log.Printf("mode %s -> %s", before, after)
		}
		if s.bus != nil {
			s.bus.Publish(eventbus.ModeChangedEvent{From: before.String(), To: after.String()})
		}
	}
}

func (s *Session) apply(ctx context.Context, action types.Action) {
	switch a := action.(type) {
	case types.InsertAction:
		s.echo.Apply(s.line.Insert(a.Rune))

	case types.DeleteBackAction:
		s.echo.Apply(s.line.DeleteBack())

	case types.MoveCursorAction:
		if a.Direction == "left" {
			s.echo.Apply(s.line.MoveLeft())
		} else {
			s.echo.Apply(s.line.MoveRight())
		}

	case types.HistoryAction:
		if s.hist.Len() == 0 {
			if a.Direction == history.Older {
				s.notice("no history")
			}
			return
		}
		if text, moved := s.hist.Navigate(a.Direction); moved {
			s.echo.Apply(s.line.SetText(text))
		}

	case types.CompleteAction:
		s.complete(ctx)

	case types.SubmitAction:
		s.submit(ctx)

	case types.CancelLineAction:
		s.echo.Cancel()
		s.line.Reset()
		s.hist.ResetCursor()
		s.echo.Prompt(s.prompt())

	case types.LoadLineAction:
		s.line.Restore(a.Line)

	case types.ShowSearchAction:
		s.echo.SearchRow(a.View)

	case types.RedrawLineAction:
		s.echo.RedrawLine(s.line.Text(), s.line.Cursor())
	}
}

func (s *Session) complete(ctx context.Context) {
	res := s.completer.Complete(ctx, s.line.Text(), s.cwd, s.opts.Home)
	switch res.Kind {
	case completion.Replace:
		s.echo.Apply(s.line.SetText(res.Line))
	case completion.Candidates:
		s.echo.Candidates(res.Matches)
	default:
		s.echo.Bell()
	}
}

// submit runs the edit line. The line joins the history only after it ran,
// so "history | grep x" does not see itself.
func (s *Session) submit(ctx context.Context) {
	text := s.line.Text()
	s.echo.Newline()
	s.line.Reset()
	s.hist.ResetCursor()

	err := s.dispatcher.Dispatch(ctx, text, s, s.echo.CommandOutput())

	if s.hist.Append(text) && s.bus != nil {
		s.bus.Publish(eventbus.HistoryAppendedEvent{Index: s.hist.Len() - 1, Command: text})
	}
	if errors.Is(err, commands.ErrExit) {
		s.exited = true
		return
	}
	s.echo.Prompt(s.prompt())
}

func (s *Session) notice(msg string) {
	s.echo.Notice(msg)
	s.noticeSeq++
	s.scheduler.After(s.opts.NoticeTimeout, TimerEvent{Kind: TimerDismissNotice, Seq: s.noticeSeq})
}

func (s *Session) handleTimer(ctx context.Context, ev TimerEvent) {
	switch ev.Kind {
	case TimerDismissNotice:
		// a newer notice owns the screen
		if ev.Seq == s.noticeSeq {
			s.echo.DismissNotice()
		}
	case TimerGitProbe:
		s.probeGit(ctx, ev.Seq)
	}
}

// probeGit checks whether git can run, retrying a few times before giving
// up
func (s *Session) probeGit(ctx context.Context, attempt int) {
	err := s.git.Available(ctx)
	if err == nil {
		s.gitStatus = "available"
		log.Printf("git available after %d probe(s)", attempt)
		return
	}
	// a memory sandbox never gains a host directory
	if attempt < s.opts.ProbeAttempts && s.sandbox.Backend() != vfs.BackendMemory {
		s.gitStatus = fmt.Sprintf("probing (attempt %d failed)", attempt)
		s.scheduler.After(s.opts.ProbeInterval, TimerEvent{Kind: TimerGitProbe, Seq: attempt + 1})
		return
	}
	s.gitStatus = err.Error()
	log.Printf("git unavailable: %v", err)
}

// Run feeds events from loop into the session until it ends
func Run(ctx context.Context, s *Session, loop *Loop) error {
	return loop.Run(ctx, func(ev Event) bool {
		return s.Handle(ctx, ev)
	})
}

func (s *Session) prompt() string {
	return fmt.Sprintf("%s@%s:%s$ ", s.opts.User, s.opts.Host, vfs.Display(s.opts.Home, s.cwd))
}

// Mode returns the active input mode
func (s *Session) Mode() types.Mode {
	return s.input.CurrentMode()
}

// History returns the history log
func (s *Session) History() *history.Store {
	return s.hist
}

// Line returns a snapshot of the edit line
func (s *Session) Line() linebuf.Snapshot {
	return s.line.Snapshot()
}

// HistoryEntries returns the history log, oldest first
func (s *Session) HistoryEntries() []string {
	return s.hist.Entries()
}

func (s *Session) Cwd() string {
	return s.cwd
}

func (s *Session) SetCwd(dir string) {
	s.cwd = dir
}

func (s *Session) Clear() {
	s.echo.Clear()
}

// ResetSandbox restores the starter files, returns home and clears the
// screen. History is kept.
func (s *Session) ResetSandbox(ctx context.Context) error {
	if err := s.sandbox.Reset(ctx); err != nil {
		return err
	}
	if err := vfs.Seed(ctx, s.sandbox, s.opts.Home); err != nil {
		return err
	}
	s.cwd = s.opts.Home
	s.echo.Clear()
	return nil
}

func (s *Session) ToggleDebug() bool {
	s.debug = !s.debug
	return s.debug
}

func (s *Session) DebugInfo() []string {
	return []string{
		"mode: " + s.input.CurrentMode().String(),
		"cwd: " + s.cwd,
		fmt.Sprintf("history: %d entries, cursor %d", s.hist.Len(), s.hist.Cursor()),
		"sandbox: " + string(s.sandbox.Backend()),
		"git: " + s.gitStatus,
	}
}
