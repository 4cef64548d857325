package terminal

import (
	"unicode"
	"unicode/utf8"
)

const (
	byteCtrlC     = 0x03
	byteBackspace = 0x08
	byteTab       = 0x09
	byteLF        = 0x0a
	byteCR        = 0x0d
	byteCtrlR     = 0x12
	byteEsc       = 0x1b
	byteDel       = 0x7f
)

// Decode classifies one atomic input chunk. It is pure: all editing state
// lives downstream. Chunks it does not recognise report false and are dropped.
func Decode(chunk []byte) (Key, bool) {
	if len(chunk) == 0 {
		return Key{}, false
	}

	if len(chunk) == 1 {
		switch chunk[0] {
		case byteCR, byteLF:
			return Key{Type: KeyEnter}, true
		case byteDel, byteBackspace:
			return Key{Type: KeyBackspace}, true
		case byteTab:
			return Key{Type: KeyTab}, true
		case byteCtrlR:
			return Key{Type: KeyCtrlR}, true
		case byteCtrlC, byteEsc:
			return Key{Type: KeyCancel}, true
		}
	}

	if chunk[0] == byteEsc {
		return decodeEscape(chunk)
	}

	r, size := utf8.DecodeRune(chunk)
	if r == utf8.RuneError || size != len(chunk) {
		return Key{}, false
	}
	if !unicode.IsPrint(r) {
		return Key{}, false
	}
	return RuneKey(r), true
}

// decodeEscape handles CSI (ESC [ x) and SS3 (ESC O x) arrow sequences
func decodeEscape(chunk []byte) (Key, bool) {
	if len(chunk) != 3 || (chunk[1] != '[' && chunk[1] != 'O') {
		return Key{}, false
	}
	switch chunk[2] {
	case 'A':
		return Key{Type: KeyUp}, true
	case 'B':
		return Key{Type: KeyDown}, true
	case 'C':
		return Key{Type: KeyRight}, true
	case 'D':
		return Key{Type: KeyLeft}, true
	}
	return Key{}, false
}

// Split cuts a raw read buffer into atomic chunks: one control byte, one
// UTF-8 rune, a lone ESC, or a complete escape sequence. A single read may
// carry several keystrokes when input is pasted or typed quickly.
func Split(buf []byte) [][]byte {
	var chunks [][]byte
	for len(buf) > 0 {
		n, _ := chunkLen(buf)
		chunks = append(chunks, buf[:n])
		buf = buf[n:]
	}
	return chunks
}

// Splitter is Split across reads. A sequence or rune cut off at the end of
// one read is held back and completed by the next one.
type Splitter struct {
	pending []byte
}

// Feed returns the complete chunks of the held-back bytes followed by buf
func (s *Splitter) Feed(buf []byte) [][]byte {
	data := append(s.pending, buf...)
	s.pending = nil

	var chunks [][]byte
	for len(data) > 0 {
		n, complete := chunkLen(data)
		if !complete {
			s.pending = data
			break
		}
		chunks = append(chunks, data[:n])
		data = data[n:]
	}
	return chunks
}

// Pending reports whether bytes are held back
func (s *Splitter) Pending() bool {
	return len(s.pending) > 0
}

// Flush gives up waiting and returns the held-back bytes as they are. A lone
// ESC becomes the Escape key.
func (s *Splitter) Flush() [][]byte {
	chunks := Split(s.pending)
	s.pending = nil
	return chunks
}

// chunkLen returns the length of the first chunk of buf and whether it is
// complete. Only a chunk running to the end of buf can be incomplete.
func chunkLen(buf []byte) (int, bool) {
	b := buf[0]
	if b == byteEsc {
		if len(buf) == 1 {
			return 1, false
		}
		switch buf[1] {
		case '[':
			// CSI: parameter and intermediate bytes, then one final byte
			for i := 2; i < len(buf); i++ {
				if buf[i] >= 0x40 && buf[i] <= 0x7e {
					return i + 1, true
				}
			}
			return len(buf), false
		case 'O':
			if len(buf) >= 3 {
				return 3, true
			}
			return len(buf), false
		case byteEsc:
			// ESC ESC: the first one stands alone
			return 1, true
		}
		// Alt+key style sequence
		if !utf8.FullRune(buf[1:]) {
			return len(buf), false
		}
		_, size := utf8.DecodeRune(buf[1:])
		return 1 + size, true
	}
	if b < utf8.RuneSelf {
		return 1, true
	}
	if !utf8.FullRune(buf) {
		return len(buf), false
	}
	_, size := utf8.DecodeRune(buf)
	return size, true
}
