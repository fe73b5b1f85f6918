package kinetic

import (
	"sync"
	"time"
)

// FrameFunc runs once at the next visual frame. now is the scheduler's
// monotonic clock.
type FrameFunc func(now time.Duration)

// FrameHandle cancels a requested frame. A cancelled frame never runs.
type FrameHandle interface {
	Cancel()
}

// Scheduler supplies the clock and the "next frame" callback the engine is
// driven by. Frame callbacks must run on the goroutine that owns the engine.
type Scheduler interface {
	Now() time.Duration
	RequestFrame(fn FrameFunc) FrameHandle
}

// ManualScheduler is a deterministic Scheduler whose clock only moves when
// told to. Frames run in request order when Step is called.
type ManualScheduler struct {
	mu       sync.Mutex
	now      time.Duration
	interval time.Duration
	pending  []*manualFrame
}

type manualFrame struct {
	fn        FrameFunc
	cancelled bool
}

func (f *manualFrame) Cancel() {
	f.cancelled = true
}

// NewManualScheduler returns a scheduler that advances by interval per
// frame. Zero means 16ms.
func NewManualScheduler(interval time.Duration) *ManualScheduler {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &ManualScheduler{interval: interval}
}

func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *ManualScheduler) RequestFrame(fn FrameFunc) FrameHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := &manualFrame{fn: fn}
	s.pending = append(s.pending, f)
	return f
}

// Advance moves the clock without running frames.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	s.mu.Unlock()
}

// Pending returns the number of frames waiting to run.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, f := range s.pending {
		if !f.cancelled {
			n++
		}
	}
	return n
}

// Step advances the clock by one interval and runs every frame that was
// pending before the call. It reports whether any frame ran.
func (s *ManualScheduler) Step() bool {
	s.mu.Lock()
	s.now += s.interval
	now := s.now
	frames := s.pending
	s.pending = nil
	s.mu.Unlock()

	ran := false
	for _, f := range frames {
		if f.cancelled {
			continue
		}
		ran = true
		f.fn(now)
	}
	return ran
}

// RunUntilIdle steps until no frames are pending or limit steps have run.
// It returns the number of steps taken.
func (s *ManualScheduler) RunUntilIdle(limit int) int {
	steps := 0
	for steps < limit && s.Pending() > 0 {
		s.Step()
		steps++
	}
	return steps
}
