package types

import (
	"gitsandbox/internal/history"
	"gitsandbox/internal/linebuf"
)

// Editing actions
type InsertAction struct {
	Rune rune
}

func (a InsertAction) Type() string { return "insert" }

type DeleteBackAction struct{}

func (a DeleteBackAction) Type() string { return "delete_back" }

type MoveCursorAction struct {
	Direction string // "left" or "right"
}

func (a MoveCursorAction) Type() string { return "move_cursor" }

// HistoryAction browses the history log
type HistoryAction struct {
	Direction history.Direction
}

func (a HistoryAction) Type() string { return "history" }

type CompleteAction struct{}

func (a CompleteAction) Type() string { return "complete" }

// SubmitAction hands the current line to the dispatcher
type SubmitAction struct{}

func (a SubmitAction) Type() string { return "submit" }

// CancelLineAction abandons the current line
type CancelLineAction struct{}

func (a CancelLineAction) Type() string { return "cancel_line" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// LoadLineAction replaces the edit line without drawing it; the search
// row is showing instead
type LoadLineAction struct {
	Line linebuf.Snapshot
}

func (a LoadLineAction) Type() string { return "load_line" }

// ShowSearchAction draws the reverse-search row
type ShowSearchAction struct {
	View string
}

func (a ShowSearchAction) Type() string { return "show_search" }

// RedrawLineAction redraws prompt and edit line from scratch
type RedrawLineAction struct{}

func (a RedrawLineAction) Type() string { return "redraw_line" }
