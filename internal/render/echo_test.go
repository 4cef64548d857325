package render

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitsandbox/internal/linebuf"
	"gitsandbox/internal/render/rendertest"
)

const prompt = "user@sandbox:~$ "

// the screen trims trailing blanks
func row(s string) string { return strings.TrimRight(s, " ") }

func setup() (*Echo, *rendertest.Screen, *linebuf.EditLine) {
	screen := rendertest.NewScreen(200)
	e := New(screen, DefaultStyles(false))
	e.Prompt(prompt)
	return e, screen, linebuf.New()
}

func assertRow(t *testing.T, screen *rendertest.Screen, line *linebuf.EditLine) {
	t.Helper()
	text := []rune(line.Text())
	assert.Equal(t, row(prompt+line.Text()), screen.CurrentRow())
	_, col := screen.Cursor()
	want := runewidth.StringWidth(prompt) + runewidth.StringWidth(string(text[:line.Cursor()]))
	assert.Equal(t, want, col, "cursor column for %q at %d", line.Text(), line.Cursor())
}

func TestApplyKeepsRowInSync(t *testing.T) {
	e, screen, line := setup()

	for _, r := range "git status" {
		e.Apply(line.Insert(r))
	}
	assertRow(t, screen, line)

	for i := 0; i < 6; i++ {
		e.Apply(line.MoveLeft())
	}
	assertRow(t, screen, line)

	e.Apply(line.DeleteBack())
	assertRow(t, screen, line)
	assert.Equal(t, "gi status", line.Text())

	e.Apply(line.Insert('x'))
	assertRow(t, screen, line)

	e.Apply(line.SetText("ls"))
	assertRow(t, screen, line)

	e.Apply(line.SetText("a much longer line"))
	e.Apply(line.SetText(""))
	assertRow(t, screen, line)
}

func TestApplyRandomOperations(t *testing.T) {
	e, screen, line := setup()
	rng := rand.New(rand.NewSource(7))
	runes := []rune("abc xyz/.é世界")

	for i := 0; i < 2000; i++ {
		var d linebuf.Delta
		switch rng.Intn(6) {
		case 0, 1:
			if line.Len() > 60 {
				d = line.DeleteBack()
				break
			}
			d = line.Insert(runes[rng.Intn(len(runes))])
		case 2:
			d = line.DeleteBack()
		case 3:
			d = line.MoveLeft()
		case 4:
			d = line.MoveRight()
		case 5:
			if rng.Intn(10) == 0 {
				d = line.SetText(string(runes[:rng.Intn(len(runes))]))
			} else {
				d = line.MoveLeft()
			}
		}
		e.Apply(d)
		require.Equal(t, row(prompt+line.Text()), screen.CurrentRow(), "step %d", i)
	}
	assertRow(t, screen, line)
}

func TestRedrawLine(t *testing.T) {
	e, screen, line := setup()
	e.SearchRow("(reverse-i-search)`git': git add .")
	assert.Equal(t, "(reverse-i-search)`git': git add .", screen.CurrentRow())

	line.SetText("git add .")
	e.RedrawLine(line.Text(), line.Cursor())
	assertRow(t, screen, line)

	line.MoveLeft()
	e.RedrawLine(line.Text(), line.Cursor())
	assertRow(t, screen, line)
}

func TestCandidates(t *testing.T) {
	e, screen, line := setup()
	for _, r := range "cat a" {
		e.Apply(line.Insert(r))
	}

	e.Candidates([]string{"about.md", "app.js"})

	lines := screen.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, prompt+"cat a", lines[0])
	assert.Equal(t, "about.md app.js", lines[1])
	assert.Equal(t, prompt+"cat a", lines[2])
	assertRow(t, screen, line)
}

func TestNoticeIsDismissed(t *testing.T) {
	e, screen, line := setup()
	e.Apply(line.Insert('l'))
	e.Apply(line.MoveLeft())

	e.Notice("no history")
	assert.Equal(t, prompt+"l  no history", screen.CurrentRow())
	_, col := screen.Cursor()
	assert.Equal(t, len(prompt), col, "cursor stays put")

	e.DismissNotice()
	assertRow(t, screen, line)

	e.Notice("no history")
	e.Apply(line.MoveRight())
	assertRow(t, screen, line)
}

func TestNewlineAndOutput(t *testing.T) {
	e, screen, line := setup()
	for _, r := range "ls" {
		e.Apply(line.Insert(r))
	}
	e.Apply(line.MoveLeft())

	e.Newline()
	_, _ = e.Output().Write([]byte("a.txt\nb.txt\n"))
	e.Error("boom: failed")
	e.Prompt(prompt)

	assert.Equal(t, []string{prompt + "ls", "a.txt", "b.txt", "boom: failed", row(prompt)}, screen.Lines())
}

func TestCommandOutput(t *testing.T) {
	var buf bytes.Buffer
	e := New(&buf, DefaultStyles(false))

	out := e.CommandOutput()
	_, _ = out.Write([]byte("x\n"))
	out.Error("y")
	assert.Equal(t, "x\r\ny\r\n", buf.String())
}

func TestCrlfWriterDoesNotDoubleCarriageReturns(t *testing.T) {
	var buf bytes.Buffer
	w := &crlfWriter{w: &buf}

	n, err := w.Write([]byte("a\r\nb\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "a\r\nb\r\n", buf.String())
}

func TestClearAndBell(t *testing.T) {
	e, screen, _ := setup()
	e.Clear()
	e.Bell()
	e.Prompt(prompt)

	assert.Equal(t, 1, screen.Clears())
	assert.Equal(t, 1, screen.Bells())
	assert.Equal(t, []string{row(prompt)}, screen.Lines())
}

func TestCancelLeavesMarkedRow(t *testing.T) {
	e, screen, line := setup()
	for _, r := range "git sta" {
		e.Apply(line.Insert(r))
	}
	e.Apply(line.MoveLeft())
	e.Notice("no history")

	e.Cancel()
	e.Prompt(prompt)

	assert.Equal(t, []string{prompt + "git sta^C", row(prompt)}, screen.Lines())
}
