// Package debounce delays a rapidly changing value until it has been quiet
// for a fixed interval.
package debounce

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultDelay is the quiet period used for search input.
const DefaultDelay = 800 * time.Millisecond

// Tick identifies the push that armed a timer. Only the tick of the newest
// push settles; older ticks are ignored.
type Tick uint64

// Debouncer coalesces pushed values. When the quiet period after the last
// push elapses, notify is called with a Tick on the timer goroutine; the
// owner passes the tick back to Settle to take the value.
//
// A Debouncer is owned by a single goroutine (the one calling Push, Settle,
// Flush and Stop). Only notify runs elsewhere, and it must not block.
type Debouncer[T any] struct {
	clock   clockwork.Clock
	delay   time.Duration
	notify  func(Tick)
	timer   clockwork.Timer
	gen     Tick
	pending T
	armed   bool
	stopped bool
}

// New creates a Debouncer. A non-positive delay uses DefaultDelay.
func New[T any](clock clockwork.Clock, delay time.Duration, notify func(Tick)) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer[T]{
		clock:  clock,
		delay:  delay,
		notify: notify,
	}
}

// Push records v as the pending value and restarts the quiet period.
func (d *Debouncer[T]) Push(v T) {
	if d.stopped {
		return
	}
	d.cancelTimer()
	d.gen++
	d.pending = v
	d.armed = true

	tick := d.gen
	d.timer = d.clock.AfterFunc(d.delay, func() { d.notify(tick) })
}

// Settle returns the pending value if t belongs to the newest push and the
// value has not been taken yet.
func (d *Debouncer[T]) Settle(t Tick) (T, bool) {
	if t != d.gen || !d.armed || d.stopped {
		var zero T
		return zero, false
	}
	return d.take()
}

// Flush cancels the quiet period and returns the pending value right away.
func (d *Debouncer[T]) Flush() (T, bool) {
	if !d.armed || d.stopped {
		var zero T
		return zero, false
	}
	d.cancelTimer()
	return d.take()
}

// Pending reports whether a value is waiting for its quiet period.
func (d *Debouncer[T]) Pending() bool {
	return d.armed && !d.stopped
}

// Stop cancels the timer and discards the pending value. Ticks that are
// already in flight settle to nothing. Push after Stop is ignored.
func (d *Debouncer[T]) Stop() {
	d.cancelTimer()
	d.stopped = true
	d.armed = false
	var zero T
	d.pending = zero
}

func (d *Debouncer[T]) take() (T, bool) {
	v := d.pending
	var zero T
	d.pending = zero
	d.armed = false
	d.timer = nil
	return v, true
}

func (d *Debouncer[T]) cancelTimer() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
