package simulation

import (
	"context"
	"sync"
	"time"
)

// DefaultAutosaveDelay is the quiescence window edits must survive
// before a write is issued.
const DefaultAutosaveDelay = 1500 * time.Millisecond

// Saver persists one coalesced payload.
type Saver func(ctx context.Context, payload interface{}) error

// Autosave debounces rapid edits into one write per quiescence
// window. The latest payload always wins; Flush bypasses the window
// for a manual save-all.
type Autosave struct {
	mu      sync.Mutex
	clock   Clock
	delay   time.Duration
	save    Saver
	onError func(error)
	pending interface{}
	has     bool
	cancel  CancelFunc
}

// NewAutosave creates a debouncer. onError receives failures from
// the delayed write path and may be nil.
func NewAutosave(clock Clock, delay time.Duration, save Saver, onError func(error)) *Autosave {
	if clock == nil {
		clock = NewClock()
	}
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	return &Autosave{clock: clock, delay: delay, save: save, onError: onError}
}

// Schedule replaces the pending payload and restarts the quiescence
// window.
func (a *Autosave) Schedule(payload interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = payload
	a.has = true
	if a.cancel != nil {
		a.cancel()
	}
	a.cancel = a.clock.AfterFunc(a.delay, a.fire)
}

func (a *Autosave) fire() {
	if err := a.Flush(context.Background()); err != nil && a.onError != nil {
		a.onError(err)
	}
}

// Flush writes the pending payload immediately, cancelling any
// scheduled write. No pending payload is a no-op. On failure the
// payload is kept so the next window retries it.
func (a *Autosave) Flush(ctx context.Context) error {
	a.mu.Lock()
	if !a.has {
		a.mu.Unlock()
		return nil
	}
	payload := a.pending
	a.has = false
	a.pending = nil
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.mu.Unlock()

	if err := a.save(ctx, payload); err != nil {
		a.mu.Lock()
		if !a.has {
			a.pending = payload
			a.has = true
		}
		a.mu.Unlock()
		return err
	}
	return nil
}

// Pending reports whether an unsaved payload is waiting.
func (a *Autosave) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.has
}
