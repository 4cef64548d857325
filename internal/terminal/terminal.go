package terminal

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/muesli/cancelreader"
	"golang.org/x/term"
)

// Terminal owns the raw-mode session on the controlling terminal and the
// input pump that turns raw bytes into keys. The pump only forwards keys to
// the sink; it never touches editing state.
type Terminal struct {
	in  *os.File
	out io.Writer
	fd  int

	mu       sync.Mutex
	oldState *term.State
	reader   cancelreader.CancelReader
	pumpDone chan struct{}
	sink     func(Key)
	closed   func(error)
	released bool

	// escapeDelay is how long a trailing ESC waits for the rest of its
	// sequence before it counts as the Escape key
	escapeDelay time.Duration
}

// New creates a terminal host over the given input file and output writer
func New(in *os.File, out io.Writer) *Terminal {
	return &Terminal{
		in:          in,
		out:         out,
		fd:          int(in.Fd()),
		escapeDelay: 50 * time.Millisecond,
	}
}

// Output returns the writer used for rendering
func (t *Terminal) Output() io.Writer {
	return t.out
}

// Start switches to raw mode and begins pumping keys into sink. closed is
// called once if the input stream ends or fails.
func (t *Terminal) Start(sink func(Key), closed func(error)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sink = sink
	t.closed = closed
	return t.acquire()
}

// Release hands the terminal back in cooked mode so another program (the
// editor or the pager) can take it over. Keys already read stay queued.
func (t *Terminal) Release() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return nil
	}
	t.released = true

	if t.reader != nil {
		t.reader.Cancel()
		<-t.pumpDone
		t.reader.Close()
		t.reader = nil
	}
	if t.oldState != nil {
		if err := term.Restore(t.fd, t.oldState); err != nil {
			return fmt.Errorf("failed to restore terminal: %w", err)
		}
		t.oldState = nil
	}
	return nil
}

// Restore re-enters raw mode and restarts the pump after Release
func (t *Terminal) Restore() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.released {
		return nil
	}
	return t.acquire()
}

// Close stops the pump and leaves the terminal in cooked mode
func (t *Terminal) Close() error {
	return t.Release()
}

func (t *Terminal) acquire() error {
	if term.IsTerminal(t.fd) {
		state, err := term.MakeRaw(t.fd)
		if err != nil {
			return fmt.Errorf("failed to set terminal to raw mode: %w", err)
		}
		t.oldState = state
	}

	reader, err := cancelreader.NewReader(t.in)
	if err != nil {
		if t.oldState != nil {
			_ = term.Restore(t.fd, t.oldState)
			t.oldState = nil
		}
		return fmt.Errorf("failed to create input reader: %w", err)
	}

	t.reader = reader
	t.pumpDone = make(chan struct{})
	t.released = false
	go t.pump(reader, t.pumpDone)
	return nil
}

func (t *Terminal) pump(r cancelreader.CancelReader, done chan struct{}) {
	defer close(done)

	var (
		mu    sync.Mutex
		split Splitter
		gen   int
		timer *time.Timer
	)
	emit := func(chunks [][]byte) {
		for _, chunk := range chunks {
			key, ok := Decode(chunk)
			if !ok {
				// Unrecognised sequences are dropped silently
				continue
			}
			t.sink(key)
		}
	}

	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)

		mu.Lock()
		gen++
		if timer != nil {
			timer.Stop()
		}
		if n > 0 {
			emit(split.Feed(buf[:n]))
		}
		switch {
		case err == nil && split.Pending():
			g := gen
			timer = time.AfterFunc(t.escapeDelay, func() {
				mu.Lock()
				defer mu.Unlock()
				// a later read already took over the held-back bytes
				if g == gen {
					emit(split.Flush())
				}
			})
		case err != nil && !errors.Is(err, cancelreader.ErrCanceled):
			emit(split.Flush())
		}
		mu.Unlock()

		if err != nil {
			if errors.Is(err, cancelreader.ErrCanceled) {
				return
			}
			if !errors.Is(err, io.EOF) {
				log.Printf("Terminal input failed: %v", err)
			}
			if t.closed != nil {
				t.closed(err)
			}
			return
		}
	}
}
