package shell

import "gitsandbox/internal/terminal"

// Event is anything the loop processes: keys, timers, end of input
type Event interface {
	event()
}

// KeyEvent carries one decoded keystroke
type KeyEvent struct {
	Key terminal.Key
}

// TimerKind names the one-shot timers the session schedules
type TimerKind int

const (
	TimerDismissNotice TimerKind = iota
	TimerGitProbe
)

// TimerEvent is posted when a scheduled timer fires
type TimerEvent struct {
	Kind TimerKind
	Seq  int
}

// InputClosedEvent is posted when the terminal input ends
type InputClosedEvent struct {
	Err error
}

func (KeyEvent) event()         {}
func (TimerEvent) event()       {}
func (InputClosedEvent) event() {}
