package kinetic

import "math"

type dragState struct {
	active      bool
	moved       bool
	startY      float64
	startOffset float64
}

// PointerDown starts a gesture at viewport-local y. Any motion in flight is
// cancelled. It reports whether the engine accepted the gesture.
func (e *Engine) PointerDown(y float64) bool {
	if !e.interactive() {
		return false
	}
	e.halt()
	e.drag = dragState{active: true, startY: y, startOffset: e.offset}
	e.tracker.Add(e.sched.Now(), y, e.cfg.TapVelocityWindow)
	e.setPhase(PhaseDragging)
	return true
}

// PointerMove follows the pointer. Movement below the drag threshold keeps
// the gesture a tap candidate.
func (e *Engine) PointerMove(y float64) {
	if !e.drag.active || e.destroyed {
		return
	}
	now := e.sched.Now()
	if !e.drag.moved && math.Abs(y-e.drag.startY) < e.cfg.DragThreshold {
		e.tracker.Add(now, y, e.cfg.TapVelocityWindow)
		return
	}
	e.drag.moved = true
	e.tracker.Add(now, y, e.cfg.VelocityWindow)

	raw := e.drag.startOffset + (y-e.drag.startY)*e.cfg.DragFollow
	e.setOffset(elastic(raw, e.geo, e.cfg, e.maxOver), true, TriggerTouch)
}

// PointerUp ends the gesture. A tap selects the tapped row; a drag hands
// its release velocity to inertia, snaps, or springs back from overscroll.
func (e *Engine) PointerUp(y float64) {
	if !e.drag.active || e.destroyed {
		return
	}
	if e.drag.moved || math.Abs(y-e.drag.startY) >= e.cfg.DragThreshold {
		e.PointerMove(y)
	}
	drag := e.drag
	e.drag = dragState{}

	if !drag.moved {
		e.tracker.Reset()
		e.tap(y)
		return
	}
	v := e.tracker.Estimate() * e.cfg.DragFollow
	e.tracker.Reset()
	e.release(v, TriggerTouch)
}

// PointerCancel abandons the gesture and settles without velocity.
func (e *Engine) PointerCancel() {
	if !e.drag.active || e.destroyed {
		return
	}
	e.drag = dragState{}
	e.tracker.Reset()
	e.release(0, TriggerTouch)
}

func (e *Engine) release(v float64, trigger Trigger) {
	if e.geo.Overscroll(e.offset) != 0 {
		e.startSpringBack(trigger)
		return
	}
	if e.cfg.Momentum && math.Abs(v) > e.cfg.MinFlingVelocity {
		e.startInertia(v)
		return
	}
	i := FirstEnabledFrom(e.items, e.geo.NearestIndex(e.offset))
	e.startSnap(i, trigger, false)
}

// tap selects the row under viewport-local y. Disabled rows are not
// selectable; the wheel settles back silently instead.
func (e *Engine) tap(y float64) {
	base := e.geo.NearestIndex(e.offset)
	rel := (y - e.geo.ViewportHeight/2) / e.geo.ItemHeight
	i := e.geo.ClampIndex(math.Round(rel) + float64(base))
	if !enabled(e.items, i) {
		e.startSnap(FirstEnabledFrom(e.items, base), TriggerClick, true)
		return
	}
	e.startSnap(i, TriggerClick, false)
}

// WheelDeltaMode is the unit of a wheel delta.
type WheelDeltaMode int

const (
	WheelPixel WheelDeltaMode = iota
	WheelLine
)

// Wheel scrolls by a wheel delta. Positive deltas move towards later items.
// Small pixel deltas accumulate until they add up to a whole row; large ones
// jump one row per WheelJumpPixels. Line deltas step by whole rows.
func (e *Engine) Wheel(delta float64, mode WheelDeltaMode) {
	if !e.interactive() || e.phase == PhaseDragging || delta == 0 {
		return
	}

	var steps int
	switch mode {
	case WheelLine:
		steps = int(math.Round(delta))
		if steps == 0 {
			steps = sign(delta)
		}
	default:
		if math.Abs(delta) < e.cfg.WheelLineThreshold {
			e.wheelAcc += delta / e.geo.ItemHeight
			steps = int(e.wheelAcc)
			e.wheelAcc -= float64(steps)
		} else {
			e.wheelAcc = 0
			steps = sign(delta) * max(1, int(math.Abs(delta)/e.cfg.WheelJumpPixels))
		}
	}
	if steps == 0 {
		return
	}

	base := e.baseIndex()
	target := e.geo.ClampIndex(float64(base + steps))
	target = NextEnabled(e.items, target, sign(float64(steps)))

	acc := e.wheelAcc
	e.halt()
	e.wheelAcc = acc
	if target == base && e.offset == e.geo.OffsetForIndex(base) {
		// Already resting at the boundary in the requested direction.
		e.setPhase(PhaseIdle)
		return
	}
	e.startSnap(target, TriggerWheel, false)
}

// KeyCommand is a discrete keyboard navigation step.
type KeyCommand int

const (
	KeyPrev KeyCommand = iota
	KeyNext
	KeyFirst
	KeyLast
	KeyPageUp
	KeyPageDown
	// KeyConfirm commits the row under the centre line.
	KeyConfirm
)

func (k KeyCommand) String() string {
	switch k {
	case KeyPrev:
		return "prev"
	case KeyNext:
		return "next"
	case KeyFirst:
		return "first"
	case KeyLast:
		return "last"
	case KeyPageUp:
		return "page-up"
	case KeyPageDown:
		return "page-down"
	case KeyConfirm:
		return "confirm"
	}
	return "unknown"
}

// Key applies a keyboard command. It reports whether the command was
// handled.
func (e *Engine) Key(cmd KeyCommand) bool {
	if !e.interactive() || e.phase == PhaseDragging {
		return false
	}

	base := e.baseIndex()
	last := len(e.items) - 1
	var target, dir int
	switch cmd {
	case KeyPrev:
		target, dir = base-1, -1
	case KeyNext:
		target, dir = base+1, 1
	case KeyFirst:
		target, dir = 0, 1
	case KeyLast:
		target, dir = last, -1
	case KeyPageUp:
		target, dir = base-e.cfg.VisibleItems, -1
	case KeyPageDown:
		target, dir = base+e.cfg.VisibleItems, 1
	case KeyConfirm:
		target, dir = base, 0
	default:
		return false
	}
	target = NextEnabled(e.items, e.geo.ClampIndex(float64(target)), dir)

	e.halt()
	e.startSnap(target, TriggerKeyboard, false)
	return true
}

// baseIndex is the row discrete steps count from: the pending snap target
// while snapping, the row under the centre line otherwise.
func (e *Engine) baseIndex() int {
	if e.phase == PhaseSnapping && e.snap.target < len(e.items) {
		return e.snap.target
	}
	return e.geo.NearestIndex(e.offset)
}
