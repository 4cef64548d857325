// Package linebuf holds the line being edited and its cursor.
//
// Every mutation returns a Delta describing the smallest redraw that keeps the
// terminal row equal to prompt + text: redraw Line from rune From onwards,
// blank Blank trailing cells left over from a longer previous line, then park
// the cursor at rune Cursor.
package linebuf

import (
	"github.com/mattn/go-runewidth"
)

// Delta describes what changed on the input row
type Delta struct {
	Line        string // full text after the operation
	From        int    // first rune that must be redrawn
	Cursor      int    // cursor position after the operation, in runes
	Blank       int    // cells to blank after the redrawn suffix
	TextChanged bool
}

// Snapshot is an immutable copy of an EditLine
type Snapshot struct {
	Text   string
	Cursor int
}

// EditLine is the in-progress command text and cursor position.
// Invariant: 0 <= cursor <= len(text).
type EditLine struct {
	text   []rune
	cursor int
}

// New returns an empty line
func New() *EditLine {
	return &EditLine{}
}

// Text returns the current text
func (l *EditLine) Text() string {
	return string(l.text)
}

// Cursor returns the cursor offset in runes
func (l *EditLine) Cursor() int {
	return l.cursor
}

// Len returns the text length in runes
func (l *EditLine) Len() int {
	return len(l.text)
}

// Snapshot captures the current state
func (l *EditLine) Snapshot() Snapshot {
	return Snapshot{Text: l.Text(), Cursor: l.cursor}
}

// Insert splices r at the cursor and advances the cursor by one
func (l *EditLine) Insert(r rune) Delta {
	from := l.cursor
	l.text = append(l.text, 0)
	copy(l.text[l.cursor+1:], l.text[l.cursor:])
	l.text[l.cursor] = r
	l.cursor++

	return Delta{
		Line:        l.Text(),
		From:        from,
		Cursor:      l.cursor,
		TextChanged: true,
	}
}

// DeleteBack removes the rune left of the cursor; no-op at position 0
func (l *EditLine) DeleteBack() Delta {
	if l.cursor == 0 {
		return l.unchanged()
	}

	removed := runewidth.RuneWidth(l.text[l.cursor-1])
	l.text = append(l.text[:l.cursor-1], l.text[l.cursor:]...)
	l.cursor--

	return Delta{
		Line:        l.Text(),
		From:        l.cursor,
		Cursor:      l.cursor,
		Blank:       removed,
		TextChanged: true,
	}
}

// MoveLeft moves the cursor one rune left, clamped at 0
func (l *EditLine) MoveLeft() Delta {
	if l.cursor > 0 {
		l.cursor--
	}
	return l.unchanged()
}

// MoveRight moves the cursor one rune right, clamped at the end of text
func (l *EditLine) MoveRight() Delta {
	if l.cursor < len(l.text) {
		l.cursor++
	}
	return l.unchanged()
}

// SetText replaces the whole buffer and places the cursor at the end
func (l *EditLine) SetText(s string) Delta {
	oldWidth := runewidth.StringWidth(string(l.text))
	l.text = []rune(s)
	l.cursor = len(l.text)

	blank := oldWidth - runewidth.StringWidth(s)
	if blank < 0 {
		blank = 0
	}
	return Delta{
		Line:        s,
		From:        0,
		Cursor:      l.cursor,
		Blank:       blank,
		TextChanged: true,
	}
}

// Restore puts back a snapshot, clamping the cursor
func (l *EditLine) Restore(s Snapshot) Delta {
	d := l.SetText(s.Text)
	l.cursor = clamp(s.Cursor, 0, len(l.text))
	d.Cursor = l.cursor
	return d
}

// Reset empties the line
func (l *EditLine) Reset() Delta {
	return l.SetText("")
}

func (l *EditLine) unchanged() Delta {
	return Delta{
		Line:   l.Text(),
		From:   l.cursor,
		Cursor: l.cursor,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
