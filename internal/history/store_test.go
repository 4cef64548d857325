package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendRejectsBlank(t *testing.T) {
	s := NewStore()

	assert.False(t, s.Append(""))
	assert.False(t, s.Append("   "))
	assert.False(t, s.Append("\t"))
	assert.Equal(t, 0, s.Len())

	assert.True(t, s.Append("ls"))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, s.Cursor())
}

func TestAppendKeepsDuplicatesInOrder(t *testing.T) {
	s := NewStore()
	s.Append("ls")
	s.Append("pwd")
	s.Append("ls")

	assert.Equal(t, []string{"ls", "pwd", "ls"}, s.Entries())
}

func TestAppendResetsCursor(t *testing.T) {
	s := NewStore()
	s.Append("a")
	s.Append("b")
	s.Navigate(Older)
	s.Navigate(Older)
	assert.Equal(t, 0, s.Cursor())

	s.Append("c")
	assert.Equal(t, 3, s.Cursor())
}

func TestNavigate(t *testing.T) {
	s := NewStore()
	s.Append("first")
	s.Append("second")

	text, moved := s.Navigate(Older)
	assert.True(t, moved)
	assert.Equal(t, "second", text)

	text, moved = s.Navigate(Older)
	assert.True(t, moved)
	assert.Equal(t, "first", text)

	_, moved = s.Navigate(Older)
	assert.False(t, moved, "up at the oldest entry is a no-op")
	assert.Equal(t, 0, s.Cursor())

	text, _ = s.Navigate(Newer)
	assert.Equal(t, "second", text)

	text, moved = s.Navigate(Newer)
	assert.True(t, moved)
	assert.Equal(t, "", text, "down past the newest entry yields a blank line")

	_, moved = s.Navigate(Newer)
	assert.False(t, moved)
	assert.Equal(t, 2, s.Cursor())
}

func TestNavigateEmpty(t *testing.T) {
	s := NewStore()

	_, moved := s.Navigate(Older)
	assert.False(t, moved)
	_, moved = s.Navigate(Newer)
	assert.False(t, moved)
}

func TestEntriesIsACopy(t *testing.T) {
	s := NewStore()
	s.Append("ls")

	entries := s.Entries()
	entries[0] = "changed"
	assert.Equal(t, []string{"ls"}, s.Entries())
}

func TestNumbered(t *testing.T) {
	assert.Equal(t, "    1  ls", Numbered(0, "ls"))
	assert.Equal(t, "   12  git log", Numbered(11, "git log"))
}
