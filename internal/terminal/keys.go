package terminal

import "fmt"

// KeyType classifies a decoded keystroke
type KeyType int

const (
	KeyRune KeyType = iota
	KeyEnter
	KeyBackspace
	KeyTab
	KeyCtrlR
	KeyCancel // Ctrl+C or Escape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

var keyNames = map[KeyType]string{
	KeyEnter:     "enter",
	KeyBackspace: "backspace",
	KeyTab:       "tab",
	KeyCtrlR:     "ctrl+r",
	KeyCancel:    "cancel",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
}

// Key is one classified input event
type Key struct {
	Type KeyType
	Rune rune // only set for KeyRune
}

// String returns a readable name, used for debug tracing
func (k Key) String() string {
	if k.Type == KeyRune {
		return fmt.Sprintf("rune(%q)", k.Rune)
	}
	if name, ok := keyNames[k.Type]; ok {
		return name
	}
	return fmt.Sprintf("key(%d)", int(k.Type))
}

// RuneKey builds a printable key
func RuneKey(r rune) Key {
	return Key{Type: KeyRune, Rune: r}
}
