// Package debounce coalesces bursts of calls into the last one.
package debounce

import (
	"sync"
	"time"
)

// A Debouncer runs only the most recently scheduled task, once its wait
// has elapsed without another Schedule call.
type Debouncer struct {
	wait time.Duration

	mu    sync.Mutex
	timer *time.Timer
	task  func()
	gen   uint64
}

func New(wait time.Duration) *Debouncer {
	return &Debouncer{wait: wait}
}

// Schedule replaces any pending task with fn.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	d.task = fn
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, func() {
		d.fire(gen)
	})
}

// fire runs the task of generation gen unless a newer one replaced it. A
// stopped timer may still fire, the generation check drops it.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.task == nil {
		d.mu.Unlock()
		return
	}
	task := d.task
	d.task = nil
	d.timer = nil
	d.mu.Unlock()

	task()
}

// Cancel drops the pending task, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drop()
}

// Flush runs the pending task now, on the calling goroutine, and reports
// whether there was one.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	task := d.task
	d.drop()
	d.mu.Unlock()

	if task == nil {
		return false
	}
	task()
	return true
}

func (d *Debouncer) drop() {
	d.gen++
	d.task = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
