package util

import (
	"sync"
	"time"
)

// Debouncer delays calls to fn until delay has passed without another call.
// Only the argument of the last call in a burst reaches fn, and executions
// of fn never overlap. fn must not call Flush on its own Debouncer.
type Debouncer[T any] struct {
	fn    func(T)
	delay time.Duration

	// run is held for the whole execution of fn.
	run sync.Mutex

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending bool
	last    T
	stopped bool
}

// NewDebouncer returns a Debouncer for fn. A negative delay is treated as zero.
func NewDebouncer[T any](fn func(T), delay time.Duration) *Debouncer[T] {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer[T]{fn: fn, delay: delay}
}

// Debounce wraps fn in a Debouncer and returns its Call method.
func Debounce[T any](fn func(T), delay time.Duration) func(T) {
	return NewDebouncer(fn, delay).Call
}

// Call cancels any pending invocation and schedules a new one with arg.
func (d *Debouncer[T]) Call(arg T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.last = arg
	d.pending = true
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// fire runs fn only if no later Call, Stop or Flush superseded gen. A
// timer that fires while fn is still running waits for it, then checks gen
// again so a superseded invocation is dropped.
func (d *Debouncer[T]) fire(gen uint64) {
	d.run.Lock()
	defer d.run.Unlock()

	d.mu.Lock()
	if gen != d.gen || !d.pending || d.stopped {
		d.mu.Unlock()
		return
	}
	arg := d.last
	d.pending = false
	d.timer = nil
	d.mu.Unlock()

	d.fn(arg)
}

// Pending reports whether an invocation is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Flush runs a pending invocation now, after any running one finishes.
// It reports whether fn ran.
func (d *Debouncer[T]) Flush() bool {
	d.run.Lock()
	defer d.run.Unlock()

	d.mu.Lock()
	if !d.pending || d.stopped {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	arg := d.last
	d.pending = false
	d.mu.Unlock()

	d.fn(arg)
	return true
}

// Cancel drops a pending invocation. Later calls schedule normally.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Stop cancels a pending invocation. Later calls are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

func (d *Debouncer[T]) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.pending = false
}
