package shell

import (
	"context"
	"sync"
	"time"
)

// Loop is the single consumer of session events. Producers (the terminal
// pump, timers) only Post; events are handled one at a time in FIFO order
// by the goroutine running Run.
type Loop struct {
	mu     sync.Mutex
	queue  []Event
	notify chan struct{}
	timers map[*time.Timer]struct{}
}

// NewLoop creates an empty loop
func NewLoop() *Loop {
	return &Loop{
		notify: make(chan struct{}, 1),
		timers: make(map[*time.Timer]struct{}),
	}
}

// Post appends ev to the queue. It never blocks.
func (l *Loop) Post(ev Event) {
	l.mu.Lock()
	l.queue = append(l.queue, ev)
	l.mu.Unlock()

	select {
	case l.notify <- struct{}{}:
	default:
	}
}

// After posts ev once d has elapsed
func (l *Loop) After(d time.Duration, ev Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var t *time.Timer
	t = time.AfterFunc(d, func() {
		l.mu.Lock()
		delete(l.timers, t)
		l.mu.Unlock()
		l.Post(ev)
	})
	l.timers[t] = struct{}{}
}

// Len returns the number of queued events
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

func (l *Loop) next() (Event, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	ev := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return ev, true
}

// Run hands events to handle until it returns false or ctx is done.
// Pending timers are stopped on return.
func (l *Loop) Run(ctx context.Context, handle func(Event) bool) error {
	defer l.stopTimers()

	for {
		for {
			ev, ok := l.next()
			if !ok {
				break
			}
			if !handle(ev) {
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		select {
		case <-l.notify:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *Loop) stopTimers() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for t := range l.timers {
		t.Stop()
	}
	l.timers = make(map[*time.Timer]struct{})
}
