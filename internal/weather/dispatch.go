package weather

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/atomic"
)

// ErrClosed is delivered when a fetch completes while its dispatcher is not
// running: it was never started or has already shut down.
var ErrClosed = errors.New("dispatcher is not running")

// Dispatcher runs completion handlers on the execution context that owns the
// published state. Dispatch reports false if fn will never run.
type Dispatcher interface {
	Dispatch(fn func()) bool
}

// Loop is a Dispatcher backed by a single goroutine. Functions run one at a
// time, in the order they were handed over.
type Loop struct {
	tasks   chan func()
	done    chan struct{}
	once    sync.Once
	started *atomic.Bool
}

// NewLoop returns a stopped loop. Call Start (or Run) before handing it to a
// Client; until then Dispatch refuses work.
func NewLoop() *Loop {
	return &Loop{
		tasks:   make(chan func()),
		done:    make(chan struct{}),
		started: atomic.NewBool(false),
	}
}

// Start runs the loop on its own goroutine. The loop accepts work as soon as
// Start returns.
func (l *Loop) Start(ctx context.Context) {
	l.started.Store(true)
	go l.Run(ctx)
}

// Dispatch blocks until the loop accepts fn or is closed. It returns false
// straight away if the loop was never started.
func (l *Loop) Dispatch(fn func()) bool {
	if !l.started.Load() {
		return false
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Run executes dispatched functions until ctx is cancelled or Close is called.
func (l *Loop) Run(ctx context.Context) {
	l.started.Store(true)
	for {
		select {
		case fn := <-l.tasks:
			fn()
		case <-ctx.Done():
			l.Close()
			return
		case <-l.done:
			return
		}
	}
}

func (l *Loop) Close() {
	l.once.Do(func() { close(l.done) })
}
