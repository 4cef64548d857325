package history

import (
	"fmt"
	"strings"
)

// Direction for browsing the log
type Direction int

const (
	Older Direction = iota // up arrow
	Newer                  // down arrow
)

// Store is the append-only log of accepted commands plus the browsing cursor.
// Entries are never reordered, deduplicated or evicted. The cursor ranges over
// [0, Len()]; Len() means "not browsing, blank line".
type Store struct {
	entries []string
	cursor  int
}

// NewStore creates an empty history
func NewStore() *Store {
	return &Store{}
}

// Append records cmd; empty and whitespace-only commands are never stored
func (s *Store) Append(cmd string) bool {
	if strings.TrimSpace(cmd) == "" {
		return false
	}
	s.entries = append(s.entries, cmd)
	s.cursor = len(s.entries)
	return true
}

// Len returns the number of entries
func (s *Store) Len() int {
	return len(s.entries)
}

// Entries returns a copy of the log, oldest first
func (s *Store) Entries() []string {
	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out
}

// Cursor returns the browsing position
func (s *Store) Cursor() int {
	return s.cursor
}

// ResetCursor stops browsing
func (s *Store) ResetCursor() {
	s.cursor = len(s.entries)
}

// Navigate moves the cursor one step. It reports the text to load into the
// edit line and whether the cursor moved; moving newer past the last entry
// yields an empty line.
func (s *Store) Navigate(dir Direction) (string, bool) {
	switch dir {
	case Older:
		if s.cursor == 0 {
			return "", false
		}
		s.cursor--
	case Newer:
		if s.cursor >= len(s.entries) {
			return "", false
		}
		s.cursor++
	}

	if s.cursor == len(s.entries) {
		return "", true
	}
	return s.entries[s.cursor], true
}

// Numbered formats entry i the way the history command prints it
func Numbered(i int, cmd string) string {
	return fmt.Sprintf("%5d  %s", i+1, cmd)
}
