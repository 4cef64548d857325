package types

import (
	"gitsandbox/internal/linebuf"
	"gitsandbox/internal/terminal"
)

// Mode represents an input mode. Exactly one is active at a time.
type Mode int

const (
	ModeNormal Mode = iota
	ModeReverseSearch
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeReverseSearch:
		return "reverse-search"
	}
	return "unknown"
}

// Action represents a change the session should apply
type Action interface {
	Type() string
}

// Context provides read-only access to session state needed for input handling
type Context interface {
	HistoryEntries() []string
	Line() linebuf.Snapshot
}

// ModeHandler handles input for a specific mode
type ModeHandler interface {
	// HandleKey processes a key and returns actions and whether the key was consumed
	HandleKey(key terminal.Key, ctx Context) ([]Action, bool)

	// Enter is called when entering this mode
	Enter(ctx Context) []Action

	// Exit is called when leaving this mode
	Exit(ctx Context) []Action

	// Name returns the mode name for display
	Name() string
}
