package tpick

import (
	"sync"
	"time"

	"github.com/ayn2op/tpick/kinetic"
	"go.uber.org/atomic"
)

const defaultFrameInterval = 16 * time.Millisecond

// FrameDriver runs animation frame callbacks on the application's event loop.
// A ticker goroutine is alive only while callbacks are pending; each tick runs
// the pending batch with a shared timestamp and then redraws.
//
// FrameDriver implements [kinetic.Scheduler].
type FrameDriver struct {
	app      *Application
	interval time.Duration
	start    time.Time

	mu      sync.Mutex
	pending []*frameRequest

	running    *atomic.Bool
	stopped    *atomic.Bool
	generation *atomic.Int64
}

type frameRequest struct {
	fn        kinetic.FrameFunc
	cancelled *atomic.Bool
}

func (r *frameRequest) Cancel() {
	r.cancelled.Store(true)
}

var _ kinetic.Scheduler = (*FrameDriver)(nil)

func newFrameDriver(app *Application, interval time.Duration) *FrameDriver {
	if interval <= 0 {
		interval = defaultFrameInterval
	}
	return &FrameDriver{
		app:        app,
		interval:   interval,
		start:      time.Now(),
		running:    atomic.NewBool(false),
		stopped:    atomic.NewBool(false),
		generation: atomic.NewInt64(0),
	}
}

// Now returns the time elapsed since the driver was created.
func (d *FrameDriver) Now() time.Duration {
	return time.Since(d.start)
}

// RequestFrame schedules fn to run on the next tick.
func (d *FrameDriver) RequestFrame(fn kinetic.FrameFunc) kinetic.FrameHandle {
	req := &frameRequest{fn: fn, cancelled: atomic.NewBool(false)}
	if d.stopped.Load() {
		req.Cancel()
		return req
	}

	d.mu.Lock()
	d.pending = append(d.pending, req)
	d.mu.Unlock()

	if d.running.CompareAndSwap(false, true) {
		go d.loop(d.generation.Inc())
	}
	return req
}

// Pending returns the number of callbacks waiting for the next tick.
func (d *FrameDriver) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, req := range d.pending {
		if !req.cancelled.Load() {
			n++
		}
	}
	return n
}

func (d *FrameDriver) loop(generation int64) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for range ticker.C {
		if d.stopped.Load() || d.generation.Load() != generation || !d.running.Load() {
			return
		}
		// Drop the tick rather than block when the event loop is backed up.
		select {
		case d.app.updates <- queuedUpdate{f: d.tick}:
		default:
		}
	}
}

// tick runs on the event loop.
func (d *FrameDriver) tick() {
	d.mu.Lock()
	batch := d.pending
	d.pending = nil
	d.mu.Unlock()

	now := d.Now()
	ran := false
	for _, req := range batch {
		if req.cancelled.Load() {
			continue
		}
		req.cancelled.Store(true)
		req.fn(now)
		ran = true
	}

	d.mu.Lock()
	if len(d.pending) == 0 {
		d.running.Store(false)
	}
	d.mu.Unlock()

	if ran {
		d.app.draw()
	}
}

func (d *FrameDriver) stop() {
	d.stopped.Store(true)
	d.running.Store(false)
	d.mu.Lock()
	d.pending = nil
	d.mu.Unlock()
}
