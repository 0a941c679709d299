package simulation

import (
	"sync"
	"time"
)

// Timer counts an exam duration down one second at a time and fires
// the expiry callback exactly once, whether the clock runs out or the
// candidate submits manually first.
type Timer struct {
	mu        sync.Mutex
	clock     Clock
	remaining int
	running   bool
	cancel    CancelFunc
	once      sync.Once
	onExpire  func()
}

// NewTimer creates a countdown of the given number of seconds.
func NewTimer(seconds int, clock Clock, onExpire func()) *Timer {
	if clock == nil {
		clock = NewClock()
	}
	return &Timer{clock: clock, remaining: seconds, onExpire: onExpire}
}

// Start begins ticking. Starting an already running or expired timer
// is a no-op.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running || t.remaining <= 0 {
		return
	}
	t.running = true
	t.schedule()
}

func (t *Timer) schedule() {
	t.cancel = t.clock.AfterFunc(time.Second, t.tick)
}

func (t *Timer) tick() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.remaining--
	expired := t.remaining <= 0
	if expired {
		t.running = false
	} else {
		t.schedule()
	}
	t.mu.Unlock()

	if expired {
		t.fire()
	}
}

// Submit triggers expiry manually. Safe against racing with the final
// tick: the callback still runs exactly once.
func (t *Timer) Submit() {
	t.Stop()
	t.fire()
}

// Stop halts ticking without firing.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

// Remaining returns the seconds left.
func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

func (t *Timer) fire() {
	t.once.Do(func() {
		if t.onExpire != nil {
			t.onExpire()
		}
	})
}
