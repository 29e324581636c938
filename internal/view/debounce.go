package view

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultDebounce is the search input delay.
const DefaultDebounce = 200 * time.Millisecond

// Debouncer delays fn until Trigger has not been called for the configured
// delay. Each Trigger replaces the pending value, so only the last one fires.
type Debouncer[T any] struct {
	delay time.Duration
	fn    func(T)

	mu      sync.Mutex
	timer   clockwork.Timer
	seq     uint64
	value   T
	pending bool
	stopped bool
}

// NewDebouncer returns a debouncer calling fn. A non-positive delay selects
// DefaultDebounce.
func NewDebouncer[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Trigger schedules fn(v), cancelling any call still pending.
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.value = v
	d.pending = true
	d.timer = clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		fire := !d.stopped && seq == d.seq
		if fire {
			d.pending = false
		}
		d.mu.Unlock()
		if fire {
			d.fn(v)
		}
	})
}

// Flush runs the pending call now, if there is one, and reports whether it did.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if d.stopped || !d.pending {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	d.pending = false
	v := d.value
	d.mu.Unlock()

	d.fn(v)
	return true
}

// Stop cancels the pending call. Later Triggers are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
