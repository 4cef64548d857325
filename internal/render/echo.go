// Package render is the only code that writes to the terminal. Everything
// else describes what changed; Echo turns that into escape sequences and
// keeps a model of what is on the input row so it can move the cursor
// without asking the terminal.
package render

import (
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"gitsandbox/internal/linebuf"
)

// Echo draws the prompt row and command output
type Echo struct {
	w      io.Writer
	styles Styles

	prompt string // as written, styles included
	line   []rune // text drawn after the prompt
	cursor int    // visual cursor, in runes into line
	notice int    // cells occupied by a notice after the line, 0 if none
}

// New creates an Echo writing to w
func New(w io.Writer, styles Styles) *Echo {
	return &Echo{w: w, styles: styles}
}

func (e *Echo) write(s string) {
	io.WriteString(e.w, s)
}

// Prompt starts a fresh input row
func (e *Echo) Prompt(prompt string) {
	e.prompt = e.styles.Prompt(prompt)
	e.line = nil
	e.cursor = 0
	e.notice = 0
	e.write("\r" + ansi.EraseEntireLine + e.prompt)
}

// Apply draws a line buffer delta
func (e *Echo) Apply(d linebuf.Delta) {
	e.DismissNotice()
	if !d.TextChanged {
		e.moveTo(d.Cursor)
		return
	}

	next := []rune(d.Line)
	from := min(d.From, len(next))
	e.moveTo(min(from, len(e.line)))

	var b strings.Builder
	suffix := string(next[from:])
	b.WriteString(suffix)
	if d.Blank > 0 {
		b.WriteString(strings.Repeat(" ", d.Blank))
		b.WriteString(ansi.CursorBackward(d.Blank))
	}
	e.write(b.String())

	e.line = next
	e.cursor = len(next)
	e.moveTo(d.Cursor)
}

// RedrawLine rewrites the whole input row
func (e *Echo) RedrawLine(text string, cursor int) {
	e.line = []rune(text)
	e.cursor = len(e.line)
	e.notice = 0
	e.write("\r" + ansi.EraseEntireLine + e.prompt + text)
	e.moveTo(cursor)
}

// SearchRow replaces the input row with the reverse-search view
func (e *Echo) SearchRow(view string) {
	e.line = nil
	e.cursor = 0
	e.notice = 0
	e.write("\r" + ansi.EraseEntireLine + e.styles.Search(view))
}

// Candidates prints completion candidates below the row, then redraws the
// row unchanged
func (e *Echo) Candidates(matches []string) {
	text, cursor := string(e.line), e.cursor
	e.moveTo(len(e.line))
	e.write("\r\n" + strings.Join(matches, " ") + "\r\n")
	e.RedrawLine(text, cursor)
}

// Notice shows a transient message after the line text
func (e *Echo) Notice(msg string) {
	e.DismissNotice()
	cursor := e.cursor
	e.moveTo(len(e.line))
	text := "  " + msg
	e.write(e.styles.Notice(text))
	e.notice = runewidth.StringWidth(text)
	e.write(ansi.CursorBackward(e.notice))
	e.moveTo(cursor)
}

// DismissNotice erases a visible notice
func (e *Echo) DismissNotice() {
	if e.notice == 0 {
		return
	}
	cursor := e.cursor
	e.moveTo(len(e.line))
	e.write(ansi.EraseLineRight)
	e.notice = 0
	e.moveTo(cursor)
}

// Newline ends the input row, leaving its text on screen
func (e *Echo) Newline() {
	e.DismissNotice()
	e.moveTo(len(e.line))
	e.write("\r\n")
	e.line = nil
	e.cursor = 0
}

// Cancel abandons the input row, marking it with ^C
func (e *Echo) Cancel() {
	e.DismissNotice()
	e.moveTo(len(e.line))
	e.write("^C\r\n")
	e.line = nil
	e.cursor = 0
}

// Clear wipes the screen and homes the cursor
func (e *Echo) Clear() {
	e.write(ansi.EraseEntireScreen + ansi.CursorHomePosition)
	e.line = nil
	e.cursor = 0
	e.notice = 0
}

// Bell rings the terminal bell
func (e *Echo) Bell() {
	e.write("\a")
}

// Error writes one error line
func (e *Echo) Error(msg string) {
	e.write(e.styles.Error(msg) + "\r\n")
}

// Output returns a writer for command output
func (e *Echo) Output() io.Writer {
	return &crlfWriter{w: e.w}
}

// CommandOutput is the sink handed to the dispatcher: plain output plus
// error lines
func (e *Echo) CommandOutput() *CommandOutput {
	return &CommandOutput{Writer: e.Output(), echo: e}
}

// CommandOutput couples command output with error rendering
type CommandOutput struct {
	io.Writer
	echo *Echo
}

func (o *CommandOutput) Error(msg string) {
	o.echo.Error(msg)
}

// moveTo moves the visual cursor to rune index target of the line
func (e *Echo) moveTo(target int) {
	target = max(0, min(target, len(e.line)))
	switch {
	case target < e.cursor:
		if n := runewidth.StringWidth(string(e.line[target:e.cursor])); n > 0 {
			e.write(ansi.CursorBackward(n))
		}
	case target > e.cursor:
		if n := runewidth.StringWidth(string(e.line[e.cursor:target])); n > 0 {
			e.write(ansi.CursorForward(n))
		}
	}
	e.cursor = target
}

// crlfWriter translates bare newlines for a terminal in raw mode
type crlfWriter struct {
	w io.Writer
}

func (c *crlfWriter) Write(p []byte) (int, error) {
	s := strings.ReplaceAll(string(p), "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", "\r\n")
	if _, err := io.WriteString(c.w, s); err != nil {
		return 0, err
	}
	return len(p), nil
}
