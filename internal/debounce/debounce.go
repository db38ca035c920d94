// Package debounce delays rapidly changing search input so only the last
// value in a burst reaches the network, with a minimum-length gate for
// queries too short to be useful.
package debounce

import (
	"sync"
	"time"
)

const (
	// DefaultDelay matches the recommended 300ms debounce for search-box
	// input.
	DefaultDelay = 300 * time.Millisecond
	// DefaultMinLen is the minimum query length before a search fires.
	DefaultMinLen = 3
)

// Debouncer emits the final value of an input burst after a quiet period.
// Safe for concurrent Update calls; the emit callback runs on a timer
// goroutine, one value at a time.
type Debouncer struct {
	delay  time.Duration
	minLen int
	emit   func(string)

	mu    sync.Mutex
	timer *time.Timer
	last  string
}

// New constructs a debouncer; delay <= 0 and minLen <= 0 fall back to the
// defaults.
func New(delay time.Duration, minLen int, emit func(string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if minLen <= 0 {
		minLen = DefaultMinLen
	}
	return &Debouncer{delay: delay, minLen: minLen, emit: emit}
}

// Update registers a new input value, resetting the quiet-period timer.
// Values shorter than the minimum length cancel any pending emit without
// scheduling a new one.
func (d *Debouncer) Update(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if len([]rune(value)) < d.minLen {
		return
	}
	d.last = value
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		v := d.last
		d.timer = nil
		d.mu.Unlock()
		d.emit(v)
	})
}

// Flush emits any pending value immediately.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer == nil || !d.timer.Stop() {
		d.mu.Unlock()
		return
	}
	v := d.last
	d.timer = nil
	d.mu.Unlock()
	d.emit(v)
}

// Stop cancels any pending emit.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
