package scheduler

import (
	"sync"
	"time"

	"RoomEditor/internal/logger"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"
)

// DefaultDelay matches the editor's save debounce.
const DefaultDelay = time.Second

// Debouncer coalesces bursts of Schedule calls into a single task run after
// the delay has elapsed with no newer call. Tasks run on a single worker so
// writes never overlap.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	clock   Clock
	pool    pond.Pool
	pending func()
	timer   Timer
	gen     uint64
	stopped bool
}

// NewDebouncer creates a debouncer. A nil clock uses SystemClock and a
// non-positive delay uses DefaultDelay.
func NewDebouncer(delay time.Duration, clock Clock) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if clock == nil {
		clock = SystemClock
	}
	return &Debouncer{
		delay: delay,
		clock: clock,
		pool:  pond.NewPool(1),
	}
}

// Delay returns the configured quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Schedule replaces any pending task with task and restarts the timer.
// Calls after Stop are ignored.
func (d *Debouncer) Schedule(task func()) {
	if task == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		logger.Log.Debug("Debouncer stopped, dropping task")
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = task
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	task := d.take()
	d.mu.Unlock()

	d.pool.Submit(task)
}

// take removes the pending task. Callers hold d.mu.
func (d *Debouncer) take() func() {
	task := d.pending
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	return task
}

// Pending reports whether a task is waiting for its timer.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Cancel drops the pending task without running it.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.take() != nil
}

// Flush runs the pending task immediately and waits until it and any task
// already handed to the worker have finished.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	task := d.take()
	d.mu.Unlock()

	if task != nil {
		d.pool.Submit(task)
	}
	// The worker drains in submission order, so an empty task marks the end.
	if err := d.pool.Submit(func() {}).Wait(); err != nil {
		logger.Log.Warn("Debouncer flush interrupted", zap.Error(err))
	}
}

// Stop flushes the pending task and shuts the worker down.
func (d *Debouncer) Stop() {
	d.Flush()

	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	d.mu.Unlock()

	d.pool.StopAndWait()
}
