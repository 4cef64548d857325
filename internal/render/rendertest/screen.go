// Package rendertest provides a small virtual terminal for checking what
// the render layer leaves on screen.
package rendertest

import (
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// wide marks the second cell of a double-width rune
const wide = -1

// Screen interprets the subset of escape sequences the shell emits:
// cursor left/right, erase line, erase screen, cursor home, save/restore
// cursor and SGR (ignored).
type Screen struct {
	mu         sync.Mutex
	width      int
	rows       [][]rune
	row, col   int
	savedRow   int
	savedCol   int
	pending    []byte
	bells      int
	clearCount int
}

// NewScreen creates a screen width cells wide
func NewScreen(width int) *Screen {
	return &Screen{width: width, rows: [][]rune{nil}}
}

func (s *Screen) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := append(s.pending, p...)
	s.pending = nil
	for len(buf) > 0 {
		n, ok := s.step(buf)
		if !ok {
			s.pending = append([]byte(nil), buf...)
			break
		}
		buf = buf[n:]
	}
	return len(p), nil
}

// step consumes one rune or escape sequence; ok is false when buf ends in
// the middle of one
func (s *Screen) step(buf []byte) (int, bool) {
	switch buf[0] {
	case '\r':
		s.col = 0
		return 1, true
	case '\n':
		s.newline()
		return 1, true
	case '\a':
		s.bells++
		return 1, true
	case '\b':
		if s.col > 0 {
			s.col--
		}
		return 1, true
	case 0x1b:
		return s.escape(buf)
	}

	if !utf8.FullRune(buf) {
		return 0, false
	}
	r, n := utf8.DecodeRune(buf)
	s.put(r)
	return n, true
}

func (s *Screen) escape(buf []byte) (int, bool) {
	if len(buf) < 2 {
		return 0, false
	}
	switch buf[1] {
	case '7':
		s.savedRow, s.savedCol = s.row, s.col
		return 2, true
	case '8':
		s.row, s.col = s.savedRow, s.savedCol
		return 2, true
	case '[':
	default:
		return 2, true
	}

	i := 2
	for i < len(buf) && (buf[i] < 0x40 || buf[i] > 0x7e) {
		i++
	}
	if i >= len(buf) {
		return 0, false
	}
	params, final := string(buf[2:i]), buf[i]

	n := 1
	if params != "" {
		if v, err := strconv.Atoi(strings.TrimPrefix(params, "?")); err == nil {
			n = v
		}
	}

	switch final {
	case 'C':
		s.col = min(s.col+max(n, 1), s.width-1)
	case 'D':
		s.col = max(s.col-max(n, 1), 0)
	case 'K':
		line := s.rows[s.row]
		switch params {
		case "", "0":
			if s.col < len(line) {
				s.rows[s.row] = line[:s.col]
			}
		case "2":
			s.rows[s.row] = nil
		}
	case 'J':
		if params == "2" {
			s.rows = [][]rune{nil}
			s.row, s.col = 0, 0
			s.clearCount++
		}
	case 'H':
		s.row, s.col = 0, 0
	}
	return i + 1, true
}

func (s *Screen) put(r rune) {
	w := runewidth.RuneWidth(r)
	if w == 0 {
		return
	}
	if s.col+w > s.width {
		s.newline()
		s.col = 0
	}
	line := s.rows[s.row]
	for len(line) < s.col+w {
		line = append(line, ' ')
	}
	line[s.col] = r
	if w == 2 {
		line[s.col+1] = wide
	}
	s.rows[s.row] = line
	s.col += w
}

func (s *Screen) newline() {
	s.row++
	for len(s.rows) <= s.row {
		s.rows = append(s.rows, nil)
	}
}

func render(line []rune) string {
	var b strings.Builder
	for _, r := range line {
		if r != wide {
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// Row returns row i with trailing blanks trimmed
func (s *Screen) Row(i int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.rows) {
		return ""
	}
	return render(s.rows[i])
}

// CurrentRow returns the row holding the cursor
func (s *Screen) CurrentRow() string {
	s.mu.Lock()
	row := s.row
	s.mu.Unlock()
	return s.Row(row)
}

// Cursor returns the cursor position
func (s *Screen) Cursor() (row, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.row, s.col
}

// Lines returns every row, trailing blanks trimmed, without the empty rows
// at the bottom
func (s *Screen) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.rows))
	for i, r := range s.rows {
		out[i] = render(r)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

// Bells counts how often the bell rang
func (s *Screen) Bells() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bells
}

// Clears counts full screen erases
func (s *Screen) Clears() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearCount
}
