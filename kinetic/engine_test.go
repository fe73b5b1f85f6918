package kinetic

import (
	"fmt"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{Value: strconv.Itoa(i), Label: fmt.Sprintf("Item %d", i)}
	}
	return items
}

type recorder struct {
	changes []ChangeEvent
	picks   []PickEvent
	phases  []Phase
	detents []int
}

func (r *recorder) reset() {
	*r = recorder{}
}

func (r *recorder) count(p Phase) int {
	n := 0
	for _, phase := range r.phases {
		if phase == p {
			n++
		}
	}
	return n
}

func (r *recorder) lastPick(t *testing.T) PickEvent {
	t.Helper()
	require.NotEmpty(t, r.picks)
	return r.picks[len(r.picks)-1]
}

func newTestEngine(t *testing.T, cfg Config, items []Item) (*Engine, *ManualScheduler, *recorder) {
	t.Helper()
	sched := NewManualScheduler(16 * time.Millisecond)
	rec := &recorder{}
	e := NewEngine(cfg, items, sched).
		SetChangedFunc(func(ev ChangeEvent) { rec.changes = append(rec.changes, ev) }).
		SetPickedFunc(func(ev PickEvent) { rec.picks = append(rec.picks, ev) }).
		SetPhaseFunc(func(_, to Phase) { rec.phases = append(rec.phases, to) }).
		SetDetentFunc(func(i int) { rec.detents = append(rec.detents, i) })
	return e, sched, rec
}

func currentIndex(t *testing.T, e *Engine) int {
	t.Helper()
	_, i, ok := e.Current()
	require.True(t, ok)
	return i
}

func TestScrollToIndexWithoutAnimation(t *testing.T) {
	t.Parallel()

	e, sched, rec := newTestEngine(t, DefaultConfig(), testItems(5))
	e.ScrollToIndex(2, ScrollOptions{Animate: false})

	assert.Equal(t, e.Geometry().OffsetForIndex(2), e.Offset())
	item, i, ok := e.Current()
	require.True(t, ok)
	assert.Equal(t, 2, i)
	assert.Equal(t, "2", item.Value)
	assert.Equal(t, PhaseIdle, e.Phase())
	assert.Zero(t, sched.Pending())

	require.Len(t, rec.changes, 1)
	assert.Equal(t, "2", rec.changes[0].Value)
}

func TestFlingSettlesWithSingleChange(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.InitialIndex = 5
	e, sched, rec := newTestEngine(t, cfg, testItems(40))

	y := 90.0
	require.True(t, e.PointerDown(y))
	for range 5 {
		sched.Advance(16 * time.Millisecond)
		y -= 32
		e.PointerMove(y)
	}
	assert.InDelta(t, -2.0, e.tracker.Estimate(), 1e-9)

	e.PointerUp(y)
	assert.Equal(t, PhaseInertia, e.Phase())
	assert.Empty(t, rec.changes)

	sched.RunUntilIdle(2000)
	assert.Equal(t, []Phase{PhaseDragging, PhaseInertia, PhaseSnapping, PhaseIdle}, rec.phases)

	i := currentIndex(t, e)
	assert.Greater(t, i, 9)
	assert.Equal(t, e.Geometry().OffsetForIndex(i), e.Offset())
	require.Len(t, rec.changes, 1)
	assert.Equal(t, strconv.Itoa(i), rec.changes[0].Value)
	assert.Equal(t, TriggerScroll, rec.lastPick(t).Trigger)
}

func TestFlingWithoutMomentumSnaps(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Momentum = false
	e, sched, rec := newTestEngine(t, cfg, testItems(20))

	y := 90.0
	e.PointerDown(y)
	for range 3 {
		sched.Advance(16 * time.Millisecond)
		y -= 23
		e.PointerMove(y)
	}
	e.PointerUp(y)
	assert.Equal(t, PhaseSnapping, e.Phase())

	sched.RunUntilIdle(100)
	assert.Zero(t, rec.count(PhaseInertia))
	assert.Equal(t, 2, currentIndex(t, e))
}

func TestWheelAccumulatesToOneStep(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.InitialIndex = 3
	e, sched, rec := newTestEngine(t, cfg, testItems(10))

	for range 3 {
		e.Wheel(9, WheelPixel)
		sched.RunUntilIdle(100)
	}
	assert.Empty(t, rec.phases)

	e.Wheel(9, WheelPixel)
	sched.RunUntilIdle(100)

	assert.Equal(t, 1, rec.count(PhaseSnapping))
	assert.Equal(t, 4, currentIndex(t, e))
	require.Len(t, rec.changes, 1)
	assert.Equal(t, TriggerWheel, rec.lastPick(t).Trigger)
}

func TestSetItemsShrinkReclamps(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.InitialIndex = 7
	e, _, rec := newTestEngine(t, cfg, testItems(10))
	require.Equal(t, 7, currentIndex(t, e))

	require.NotPanics(t, func() {
		e.SetItems([]Item{{Value: "a"}, {Value: "b"}, {Value: "c"}})
	})

	item, i, ok := e.Current()
	require.True(t, ok)
	assert.Equal(t, 2, i)
	assert.Equal(t, "c", item.Value)
	assert.Equal(t, e.Geometry().OffsetForIndex(2), e.Offset())
	require.Len(t, rec.changes, 1)
	assert.Equal(t, "c", rec.changes[0].Value)
}

func TestSetItemsKeepsCurrentValue(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.InitialValue = "3"
	e, _, rec := newTestEngine(t, cfg, testItems(5))
	require.Equal(t, 3, currentIndex(t, e))

	items := testItems(5)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	e.SetItems(items)

	item, i, _ := e.Current()
	assert.Equal(t, 1, i)
	assert.Equal(t, "3", item.Value)
	assert.Equal(t, e.Geometry().OffsetForIndex(1), e.Offset())
	assert.Empty(t, rec.changes)
}

func TestBoundsInvariant(t *testing.T) {
	t.Parallel()

	e, sched, _ := newTestEngine(t, DefaultConfig(), testItems(8))
	g := e.Geometry()

	check := func() {
		t.Helper()
		minY, maxY := g.Bounds()
		switch e.Phase() {
		case PhaseDragging, PhaseInertia, PhaseBoundarySpring:
			over := math.Abs(e.Offset() - g.Clamp(e.Offset()))
			assert.LessOrEqual(t, over, e.MaxOverscroll()+1e-9, "phase %s", e.Phase())
		default:
			assert.GreaterOrEqual(t, e.Offset(), minY-1e-9, "phase %s", e.Phase())
			assert.LessOrEqual(t, e.Offset(), maxY+1e-9, "phase %s", e.Phase())
		}
	}
	fling := func(from int, dy float64) {
		e.ScrollToIndex(from, ScrollOptions{Silent: true})
		y := 90.0
		e.PointerDown(y)
		for range 4 {
			sched.Advance(16 * time.Millisecond)
			y += dy
			e.PointerMove(y)
			check()
		}
		e.PointerUp(y)
		for steps := 0; sched.Pending() > 0 && steps < 2000; steps++ {
			sched.Step()
			check()
		}
		assert.Equal(t, PhaseIdle, e.Phase())
	}

	fling(6, 40)   // towards the first item, fast
	fling(1, -40)  // towards the last item
	fling(0, 60)   // pulled past the top
	fling(7, -60)  // pulled past the bottom
	fling(3, 120)  // hard fling
	fling(4, -120) // hard fling the other way
}

func TestInertiaSpeedDecreases(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	g := Geometry{ItemHeight: 36, ViewportHeight: 180, Count: 10}
	maxOver := cfg.Overscroll(g.ViewportHeight)

	for _, v0 := range []float64{-5, -2, -0.3, 0.05, 0.7, 3, 5} {
		for _, start := range []int{0, 5, 9} {
			b := inertiaBody{raw: g.OffsetForIndex(start), offset: g.OffsetForIndex(start), v: v0}
			done := false
			for range 10000 {
				next, outcome := stepInertia(b, 16, g, cfg, maxOver)
				if outcome != inertiaRunning {
					done = true
					break
				}
				require.Less(t, math.Abs(next.v), math.Abs(b.v), "v0=%v start=%d", v0, start)
				b = next
			}
			assert.True(t, done, "v0=%v start=%d", v0, start)
		}
	}
}

func TestCenterToCurrentIsIdempotent(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.InitialIndex = 2
	e, sched, rec := newTestEngine(t, cfg, testItems(10))
	e.ScrollToIndex(6, ScrollOptions{Animate: true})
	sched.Step()
	require.Equal(t, PhaseSnapping, e.Phase())

	e.CenterToCurrent(false)
	first := e.Offset()
	e.CenterToCurrent(false)
	assert.Equal(t, first, e.Offset())
	assert.Equal(t, e.Geometry().OffsetForIndex(2), first)
	assert.Equal(t, PhaseIdle, e.Phase())
	assert.Zero(t, sched.Pending())
	assert.Empty(t, rec.changes)
}

func TestCenterToCurrentSmooth(t *testing.T) {
	t.Parallel()

	e, sched, rec := newTestEngine(t, DefaultConfig(), testItems(10))
	e.PointerDown(90)
	e.PointerMove(40)
	e.PointerCancel()
	e.CenterToCurrent(true)
	assert.Equal(t, PhaseSnapping, e.Phase())
	sched.RunUntilIdle(100)

	assert.Equal(t, e.Geometry().OffsetForIndex(0), e.Offset())
	assert.Empty(t, rec.changes)
}

func TestScrollToDisabledIndex(t *testing.T) {
	t.Parallel()

	e, sched, rec := newTestEngine(t, DefaultConfig(), withDisabled(6, 2, 3))

	e.ScrollToIndex(2, ScrollOptions{})
	assert.Equal(t, 1, currentIndex(t, e))

	e.ScrollToIndex(3, ScrollOptions{Animate: true, Trigger: TriggerClick})
	sched.RunUntilIdle(100)
	assert.Equal(t, 4, currentIndex(t, e))
	assert.Equal(t, e.Geometry().OffsetForIndex(4), e.Offset())

	for _, ev := range rec.picks {
		assert.False(t, ev.Item.Disabled)
	}
	assert.Equal(t, TriggerClick, rec.lastPick(t).Trigger)
}

func TestScrollToValue(t *testing.T) {
	t.Parallel()

	e, sched, rec := newTestEngine(t, DefaultConfig(), testItems(10))
	e.ScrollToValue("8", ScrollOptions{Animate: true, Silent: true})
	sched.RunUntilIdle(100)
	assert.Equal(t, 8, currentIndex(t, e))
	assert.Empty(t, rec.changes)
	assert.Empty(t, rec.picks)

	e.ScrollToValue("missing", ScrollOptions{})
	assert.Equal(t, 8, currentIndex(t, e))

	e.ScrollToIndex(99, ScrollOptions{})
	assert.Equal(t, 9, currentIndex(t, e))
	e.ScrollToIndex(-5, ScrollOptions{})
	assert.Equal(t, 0, currentIndex(t, e))
}

func TestTapSelectsRow(t *testing.T) {
	t.Parallel()

	e, sched, rec := newTestEngine(t, DefaultConfig(), testItems(10))
	require.True(t, e.PointerDown(126))
	e.PointerUp(127)
	sched.RunUntilIdle(100)

	assert.Equal(t, 1, currentIndex(t, e))
	assert.Equal(t, TriggerClick, rec.lastPick(t).Trigger)
	assert.Zero(t, rec.count(PhaseInertia))
}

func TestTapOnDisabledRow(t *testing.T) {
	t.Parallel()

	e, sched, rec := newTestEngine(t, DefaultConfig(), withDisabled(10, 1))
	e.PointerDown(126)
	e.PointerUp(126)
	sched.RunUntilIdle(100)

	assert.Equal(t, 0, currentIndex(t, e))
	assert.Empty(t, rec.changes)
	assert.Empty(t, rec.picks)
}

func TestSlowDragSnapsToNearest(t *testing.T) {
	t.Parallel()

	e, sched, rec := newTestEngine(t, DefaultConfig(), testItems(10))
	e.PointerDown(90)
	sched.Advance(16 * time.Millisecond)
	e.PointerMove(70)
	sched.Advance(200 * time.Millisecond)
	e.PointerMove(70)
	e.PointerUp(70)
	assert.Equal(t, PhaseSnapping, e.Phase())

	sched.RunUntilIdle(100)
	assert.Equal(t, 1, currentIndex(t, e))
	assert.Equal(t, TriggerTouch, rec.lastPick(t).Trigger)
	require.Len(t, rec.changes, 1)
}

func TestReleaseOnDisabledRowPicksNearestEnabled(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Momentum = false
	cfg.InitialIndex = 2
	e, sched, rec := newTestEngine(t, cfg, withDisabled(10, 4, 5, 6))
	require.Equal(t, 2, currentIndex(t, e))

	y := 100.0
	e.PointerDown(y)
	for _, next := range []float64{80, 60, 40, 28} {
		sched.Advance(40 * time.Millisecond)
		y = next
		e.PointerMove(y)
	}
	assert.Equal(t, e.Geometry().OffsetForIndex(4), e.Offset())

	e.PointerUp(y)
	sched.RunUntilIdle(200)
	assert.Equal(t, 3, currentIndex(t, e))
	require.Len(t, rec.changes, 1)
	assert.Equal(t, "3", rec.changes[0].Value)
}

func TestDragEmitsDetentsAndLivePicks(t *testing.T) {
	t.Parallel()

	e, _, rec := newTestEngine(t, DefaultConfig(), testItems(10))
	e.PointerDown(90)
	e.PointerMove(10)

	assert.Equal(t, []int{2}, rec.detents)
	pick := rec.lastPick(t)
	assert.Equal(t, "2", pick.Value)
	assert.Equal(t, TriggerTouch, pick.Trigger)
	assert.Empty(t, rec.changes)
	assert.Equal(t, 0, currentIndex(t, e))

	_, visual, _ := e.Visual()
	assert.Equal(t, 2, visual)
}

func TestBoundarySpringBack(t *testing.T) {
	t.Parallel()

	for _, mode := range []SpringBackMode{SpringBackBounce, SpringBackEase} {
		t.Run(mode.String(), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.SpringBackMode = mode
			e, sched, rec := newTestEngine(t, cfg, testItems(10))
			_, maxY := e.Geometry().Bounds()

			e.PointerDown(50)
			sched.Advance(16 * time.Millisecond)
			e.PointerMove(150)
			over := e.Offset() - maxY
			assert.Greater(t, over, 0.0)
			assert.Less(t, over, 100.0)

			sched.Advance(200 * time.Millisecond)
			e.PointerMove(150)
			e.PointerUp(150)
			assert.Equal(t, PhaseBoundarySpring, e.Phase())

			sched.RunUntilIdle(500)
			assert.Equal(t, PhaseIdle, e.Phase())
			assert.Equal(t, e.Geometry().OffsetForIndex(0), e.Offset())
			assert.Equal(t, 0, currentIndex(t, e))
			assert.Empty(t, rec.changes)
			assert.Equal(t, TriggerTouch, rec.lastPick(t).Trigger)
		})
	}
}

func TestWheelLineAndJumps(t *testing.T) {
	t.Parallel()

	e, sched, rec := newTestEngine(t, DefaultConfig(), testItems(10))

	// Already at the first item.
	e.Wheel(-1, WheelLine)
	assert.Empty(t, rec.phases)

	e.Wheel(1, WheelLine)
	e.Wheel(1, WheelLine)
	e.Wheel(1, WheelLine)
	assert.LessOrEqual(t, sched.Pending(), 1)
	sched.RunUntilIdle(100)
	assert.Equal(t, 3, currentIndex(t, e))

	e.Wheel(250, WheelPixel)
	sched.RunUntilIdle(100)
	assert.Equal(t, 5, currentIndex(t, e))

	e.Wheel(-40, WheelPixel)
	sched.RunUntilIdle(100)
	assert.Equal(t, 4, currentIndex(t, e))
	assert.Equal(t, TriggerWheel, rec.lastPick(t).Trigger)
}

func TestKeyCommands(t *testing.T) {
	t.Parallel()

	e, sched, rec := newTestEngine(t, DefaultConfig(), withDisabled(12, 3))

	tests := []struct {
		cmd      KeyCommand
		expected int
	}{
		{KeyNext, 1},
		{KeyNext, 2},
		{KeyNext, 4},
		{KeyPrev, 2},
		{KeyPageDown, 7},
		{KeyLast, 11},
		{KeyPageUp, 6},
		{KeyFirst, 0},
		{KeyPrev, 0},
	}
	for _, tt := range tests {
		require.True(t, e.Key(tt.cmd))
		sched.RunUntilIdle(100)
		assert.Equal(t, tt.expected, currentIndex(t, e), "after %s", tt.cmd)
	}
	assert.Equal(t, TriggerKeyboard, rec.lastPick(t).Trigger)
}

func TestKeyStepsChainWhileSnapping(t *testing.T) {
	t.Parallel()

	e, sched, _ := newTestEngine(t, DefaultConfig(), testItems(10))
	e.Key(KeyNext)
	sched.Step()
	e.Key(KeyNext)
	sched.RunUntilIdle(100)
	assert.Equal(t, 2, currentIndex(t, e))
}

func TestKeyConfirm(t *testing.T) {
	t.Parallel()

	e, sched, rec := newTestEngine(t, DefaultConfig(), testItems(5))
	require.True(t, e.Key(KeyConfirm))
	sched.RunUntilIdle(100)
	assert.Empty(t, rec.changes)
	assert.Equal(t, TriggerKeyboard, rec.lastPick(t).Trigger)
	assert.Equal(t, "0", rec.lastPick(t).Value)
}

func TestDisabledEngineIgnoresInput(t *testing.T) {
	t.Parallel()

	e, sched, rec := newTestEngine(t, DefaultConfig(), testItems(5))
	e.SetDisabled(true)

	assert.False(t, e.PointerDown(90))
	assert.False(t, e.Key(KeyNext))
	e.Wheel(1, WheelLine)
	assert.Zero(t, sched.Pending())
	assert.Empty(t, rec.phases)

	e.ScrollToIndex(3, ScrollOptions{})
	assert.Equal(t, 3, currentIndex(t, e))
}

func TestDisablingDuringDragSettles(t *testing.T) {
	t.Parallel()

	e, sched, _ := newTestEngine(t, DefaultConfig(), testItems(5))
	e.PointerDown(90)
	e.PointerMove(60)
	e.SetDisabled(true)
	assert.NotEqual(t, PhaseDragging, e.Phase())
	sched.RunUntilIdle(100)
	assert.Equal(t, PhaseIdle, e.Phase())
	assert.Equal(t, 1, currentIndex(t, e))
}

func TestPointerDownPreemptsSnap(t *testing.T) {
	t.Parallel()

	e, sched, _ := newTestEngine(t, DefaultConfig(), testItems(10))
	e.ScrollToIndex(5, ScrollOptions{Animate: true})
	sched.Step()
	require.Equal(t, 1, sched.Pending())

	require.True(t, e.PointerDown(90))
	assert.Equal(t, PhaseDragging, e.Phase())
	assert.Zero(t, sched.Pending())
	assert.Equal(t, 0, currentIndex(t, e))
}

func TestScrollPreemptsDrag(t *testing.T) {
	t.Parallel()

	e, sched, _ := newTestEngine(t, DefaultConfig(), testItems(10))
	e.PointerDown(90)
	e.PointerMove(20)
	e.ScrollToIndex(6, ScrollOptions{Animate: true})
	assert.Equal(t, PhaseSnapping, e.Phase())

	e.PointerMove(300)
	e.PointerUp(300)
	sched.RunUntilIdle(100)
	assert.Equal(t, 6, currentIndex(t, e))
}

func TestDestroyCancelsFrames(t *testing.T) {
	t.Parallel()

	e, sched, rec := newTestEngine(t, DefaultConfig(), testItems(10))
	e.ScrollToIndex(5, ScrollOptions{Animate: true})
	sched.Step()
	require.Equal(t, 1, sched.Pending())
	offset := e.Offset()

	e.Destroy()
	assert.Zero(t, sched.Pending())
	assert.False(t, sched.Step())
	assert.Equal(t, offset, e.Offset())

	e.ScrollToIndex(2, ScrollOptions{})
	assert.False(t, e.PointerDown(90))
	assert.Equal(t, 0, currentIndex(t, e))
	assert.Empty(t, rec.changes)
}

func TestDegenerateGeometryDefersMotion(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.ItemHeight = 0
	e, sched, rec := newTestEngine(t, cfg, testItems(5))
	require.False(t, e.Geometry().Valid())

	assert.False(t, e.PointerDown(10))
	e.ScrollToIndex(3, ScrollOptions{Animate: true})
	assert.Equal(t, 3, currentIndex(t, e))
	assert.Zero(t, sched.Pending())
	require.Len(t, rec.changes, 1)

	e.Wheel(1, WheelLine)
	assert.Zero(t, sched.Pending())

	e.SetGeometry(36, 180)
	assert.Equal(t, e.Geometry().OffsetForIndex(3), e.Offset())
	assert.Equal(t, PhaseIdle, e.Phase())
	assert.Len(t, rec.changes, 1)
}

func TestEmptyList(t *testing.T) {
	t.Parallel()

	e, sched, rec := newTestEngine(t, DefaultConfig(), nil)
	require.NotPanics(t, func() {
		e.ScrollToIndex(3, ScrollOptions{Animate: true})
		e.ScrollToValue("x", ScrollOptions{})
		e.CenterToCurrent(true)
		e.Wheel(1, WheelLine)
		assert.False(t, e.Key(KeyNext))
		assert.False(t, e.PointerDown(50))
		_ = e.Frame()
	})
	_, _, ok := e.Current()
	assert.False(t, ok)
	_, _, ok = e.Visual()
	assert.False(t, ok)
	assert.Zero(t, sched.Pending())

	e.SetItems(testItems(3))
	assert.Equal(t, 0, currentIndex(t, e))
	require.Len(t, rec.changes, 1)

	e.SetItems(nil)
	_, _, ok = e.Current()
	assert.False(t, ok)
}

func TestFrameProjections(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.InitialIndex = 2
	e, _, _ := newTestEngine(t, cfg, testItems(6))
	f := e.Frame()
	assert.Nil(t, f.Rows)
	assert.Equal(t, 2.0, f.VisualIndex)

	cfg.Perspective.Enabled = true
	e, _, _ = newTestEngine(t, cfg, testItems(6))
	f = e.Frame()
	require.Len(t, f.Rows, 6)
	assert.Equal(t, 1.0, f.Rows[2].Scale)
	assert.True(t, f.Rows[2].Visible)
	assert.False(t, f.Rows[5].Visible)
	assert.Equal(t, f.Rows[4], e.Project(4))
}
