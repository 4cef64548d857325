package search

import (
	"fmt"
	"strings"

	"gitsandbox/internal/linebuf"
)

// Start begins a search over a log of historyLen entries, remembering the
// edit line so cancel can restore it verbatim
func Start(saved linebuf.Snapshot, historyLen int) *State {
	return &State{
		MatchIndex: historyLen,
		Saved:      saved,
	}
}

// Next handles a repeated Ctrl+R. With an empty query it steps one entry
// back (staying at the oldest); otherwise it looks for the next older match,
// wrapping around to the newest entries once.
func (s *State) Next(entries []string) {
	if s.Query == "" {
		if s.MatchIndex > 0 {
			s.MatchIndex--
		}
		s.Failed = false
		if s.MatchIndex < len(entries) {
			s.Match = entries[s.MatchIndex]
		}
		return
	}
	s.find(entries)
}

// Type appends r to the query and searches again from the newest entry
func (s *State) Type(r rune, entries []string) {
	s.Query += string(r)
	s.MatchIndex = len(entries)
	s.find(entries)
}

// Backspace drops the last query rune and searches again from the newest
// entry. It is a no-op when the query is already empty.
func (s *State) Backspace(entries []string) {
	if s.Query == "" {
		return
	}
	runes := []rune(s.Query)
	s.Query = string(runes[:len(runes)-1])
	s.MatchIndex = len(entries)
	s.find(entries)
}

// View renders the search row
func (s *State) View() string {
	if s.Failed {
		return fmt.Sprintf("%s`%s': ", promptFailed, s.Query)
	}
	return fmt.Sprintf("%s`%s': %s", promptActive, s.Query, s.Match)
}

// find scans strictly before MatchIndex towards the oldest entry, then wraps
// and scans from the newest entry down to, but not including, the pre-wrap
// MatchIndex. The most recent hit wins.
func (s *State) find(entries []string) {
	if s.Query == "" && len(entries) == 0 {
		s.Failed = false
		s.Match = ""
		return
	}

	start := s.MatchIndex
	if start > len(entries) {
		start = len(entries)
	}

	for i := start - 1; i >= 0; i-- {
		if Contains(entries[i], s.Query) {
			s.hit(i, entries[i])
			return
		}
	}
	for i := len(entries) - 1; i > start; i-- {
		if Contains(entries[i], s.Query) {
			s.hit(i, entries[i])
			return
		}
	}

	s.Failed = true
	s.Match = ""
}

func (s *State) hit(i int, entry string) {
	s.MatchIndex = i
	s.Match = entry
	s.Failed = false
}

// Contains is the only match predicate: case-insensitive substring containment
func Contains(text, query string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(query))
}
