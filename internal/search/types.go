package search

import "gitsandbox/internal/linebuf"

// State holds reverse-search state. It only exists while the reverse-search
// mode is active: it is created on Ctrl+R and dropped on accept or cancel.
type State struct {
	Query      string
	MatchIndex int              // index into the history log; len(log) means "before the newest"
	Match      string           // text currently loaded into the edit line
	Saved      linebuf.Snapshot // edit line at entry, restored on cancel
	Failed     bool
}

const (
	promptActive = "(reverse-i-search)"
	promptFailed = "(failed reverse-i-search)"
)
