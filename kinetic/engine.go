// Package kinetic implements a single-axis, snap-to-item wheel selector:
// drag, wheel and keyboard input drive an offset through inertia, elastic
// boundaries and eased snapping, one scheduled frame at a time.
package kinetic

import (
	"log/slog"
	"math"
	"time"
)

// Phase is the motion state of an Engine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseInertia
	PhaseSnapping
	PhaseBoundarySpring
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseInertia:
		return "inertia"
	case PhaseSnapping:
		return "snapping"
	case PhaseBoundarySpring:
		return "boundary-spring"
	}
	return "unknown"
}

// ChangeEvent is emitted once per committed selection change.
type ChangeEvent struct {
	Index int
	Value string
	Item  Item
}

// PickEvent is emitted for live previews while the wheel moves and when a
// gesture completes.
type PickEvent struct {
	Index   int
	Value   string
	Item    Item
	Trigger Trigger
}

// ScrollOptions controls programmatic scrolling.
type ScrollOptions struct {
	// Animate snaps smoothly instead of jumping.
	Animate bool
	// Silent suppresses pick and change notifications.
	Silent bool
	// Trigger is reported with the resulting pick.
	Trigger Trigger
}

type notify int

const (
	notifySilent notify = iota
	notifyChange
	notifyAll
)

// Engine is the kinetic wheel selector. The offset is authoritative; the
// visual index is derived from it on read. All methods must be called from
// the goroutine that runs the scheduler's frames.
type Engine struct {
	cfg       Config
	sched     Scheduler
	logger    *slog.Logger
	projector Projector

	items   []Item
	geo     Geometry
	maxOver float64

	offset float64
	phase  Phase
	visual int

	current  int
	value    string
	hasValue bool

	// frame is the single owned pending frame. Starting any motion cancels
	// it first.
	frame FrameHandle

	drag     dragState
	tracker  VelocityTracker
	inertia  inertiaBody
	last     time.Duration
	snap     snapState
	spring   springState
	wheelAcc float64

	disabled  bool
	destroyed bool

	changed func(ChangeEvent)
	picked  func(PickEvent)
	detent  func(index int)
	phased  func(from, to Phase)
}

// NewEngine returns an engine showing items, driven by sched. Unusable
// configuration values fall back to their defaults.
func NewEngine(cfg Config, items []Item, sched Scheduler) *Engine {
	cfg = cfg.normalized()
	e := &Engine{
		cfg:       cfg,
		sched:     sched,
		logger:    slog.New(slog.DiscardHandler),
		projector: NewProjector(cfg.Perspective, cfg.VisibleItems),
		items:     append([]Item(nil), items...),
		current:   -1,
	}
	e.geo = Geometry{ItemHeight: cfg.ItemHeight, ViewportHeight: cfg.Viewport(), Count: len(e.items)}
	e.maxOver = cfg.Overscroll(e.geo.ViewportHeight)

	if len(e.items) > 0 {
		i := -1
		if cfg.InitialValue != "" {
			i = IndexOfValue(e.items, cfg.InitialValue)
		}
		if i < 0 {
			i = cfg.InitialIndex
		}
		i = FirstEnabledFrom(e.items, e.geo.ClampIndex(float64(i)))
		e.setCurrent(i)
	}
	e.offset = e.geo.OffsetForIndex(max(e.current, 0))
	e.visual = e.geo.NearestIndex(e.offset)
	return e
}

// SetLogger sets the logger used for phase transitions and commits.
func (e *Engine) SetLogger(logger *slog.Logger) *Engine {
	if logger != nil {
		e.logger = logger
	}
	return e
}

// SetChangedFunc sets the handler called once per committed change.
func (e *Engine) SetChangedFunc(handler func(ChangeEvent)) *Engine {
	e.changed = handler
	return e
}

// SetPickedFunc sets the handler for live picks.
func (e *Engine) SetPickedFunc(handler func(PickEvent)) *Engine {
	e.picked = handler
	return e
}

// SetDetentFunc sets a handler called whenever the row under the centre
// line changes during a gesture. It is meant for click or haptic feedback.
func (e *Engine) SetDetentFunc(handler func(index int)) *Engine {
	e.detent = handler
	return e
}

// SetPhaseFunc sets a handler called on every phase transition.
func (e *Engine) SetPhaseFunc(handler func(from, to Phase)) *Engine {
	e.phased = handler
	return e
}

// Config returns the normalized configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Geometry returns the current geometry.
func (e *Engine) Geometry() Geometry {
	return e.geo
}

// Items returns a copy of the items.
func (e *Engine) Items() []Item {
	return append([]Item(nil), e.items...)
}

// Len returns the number of items.
func (e *Engine) Len() int {
	return len(e.items)
}

// Offset returns the current track offset in pixels.
func (e *Engine) Offset() float64 {
	return e.offset
}

// Phase returns the current motion phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// MaxOverscroll returns the effective overscroll limit in pixels.
func (e *Engine) MaxOverscroll() float64 {
	return e.maxOver
}

// VisualIndex returns the fractional index currently under the centre line.
func (e *Engine) VisualIndex() float64 {
	return e.geo.IndexForOffset(e.offset)
}

// Visual returns the item currently under the centre line.
func (e *Engine) Visual() (Item, int, bool) {
	if len(e.items) == 0 {
		return Item{}, -1, false
	}
	i := e.geo.NearestIndex(e.offset)
	return e.items[i], i, true
}

// Current returns the committed item.
func (e *Engine) Current() (Item, int, bool) {
	i := e.currentIndex()
	if i < 0 {
		return Item{}, -1, false
	}
	return e.items[i], i, true
}

// Target returns the index the wheel is heading to: the pending snap target
// while snapping, the committed index otherwise. It is -1 for an empty list.
func (e *Engine) Target() int {
	if e.phase == PhaseSnapping && e.snap.target < len(e.items) {
		return e.snap.target
	}
	_, i, ok := e.Current()
	if !ok {
		return -1
	}
	return i
}

// Disabled reports whether user input is ignored.
func (e *Engine) Disabled() bool {
	return e.disabled
}

// SetDisabled makes the engine ignore pointer, wheel and key input.
// Programmatic commands keep working. A gesture in progress is settled.
func (e *Engine) SetDisabled(disabled bool) *Engine {
	if e.disabled == disabled {
		return e
	}
	e.disabled = disabled
	if disabled && e.phase == PhaseDragging {
		e.PointerCancel()
	}
	return e
}

// SetItems replaces the items. The committed value is kept when it still
// exists; otherwise the old index is clamped to the new list and the
// nearest enabled item is committed with a single change notification.
func (e *Engine) SetItems(items []Item) {
	if e.destroyed {
		return
	}
	e.halt()
	e.items = append([]Item(nil), items...)
	e.geo.Count = len(e.items)

	if len(e.items) == 0 {
		e.current, e.value, e.hasValue = -1, "", false
		e.offset = e.geo.CenterOffset()
		e.visual = 0
		e.setPhase(PhaseIdle)
		return
	}

	if e.hasValue {
		if i := IndexOfValue(e.items, e.value); i >= 0 {
			e.current = i
			e.align(i)
			return
		}
	}

	i := FirstEnabledFrom(e.items, e.geo.ClampIndex(float64(max(e.current, 0))))
	e.align(i)
	e.commit(i, TriggerScroll, notifyChange)
}

// SetGeometry updates the measured heights. Invalid values put the engine
// into the "not measured" state in which motion is deferred. Once valid, the
// current item is re-centred silently.
func (e *Engine) SetGeometry(itemHeight, viewportHeight float64) {
	if e.destroyed {
		return
	}
	if e.geo.ItemHeight == itemHeight && e.geo.ViewportHeight == viewportHeight {
		return
	}
	e.halt()
	e.geo.ItemHeight = itemHeight
	e.geo.ViewportHeight = viewportHeight
	e.maxOver = e.cfg.Overscroll(viewportHeight)
	e.CenterToCurrent(false)
}

// ScrollToIndex cancels any motion and moves to index i, clamped to the
// list and moved to the nearest enabled item.
func (e *Engine) ScrollToIndex(i int, opts ScrollOptions) {
	if e.destroyed || len(e.items) == 0 {
		return
	}
	e.halt()
	target := FirstEnabledFrom(e.items, e.geo.ClampIndex(float64(i)))

	mode := notifyAll
	if opts.Silent {
		mode = notifySilent
	}
	if !opts.Animate || !e.geo.Valid() {
		e.align(target)
		e.commit(target, opts.Trigger, mode)
		return
	}
	e.startSnap(target, opts.Trigger, opts.Silent)
}

// ScrollToValue scrolls to the first item with value. Unknown values are
// ignored.
func (e *Engine) ScrollToValue(value string, opts ScrollOptions) {
	i := IndexOfValue(e.items, value)
	if i < 0 {
		e.logger.Debug("scroll to unknown value", "value", value)
		return
	}
	e.ScrollToIndex(i, opts)
}

// CenterToCurrent re-aligns the offset on the committed item without
// changing it.
func (e *Engine) CenterToCurrent(smooth bool) {
	if e.destroyed || len(e.items) == 0 {
		return
	}
	e.halt()
	i := FirstEnabledFrom(e.items, e.geo.ClampIndex(float64(max(e.currentIndex(), 0))))
	if !e.hasValue {
		e.setCurrent(i)
	}
	if !e.geo.Valid() {
		e.setPhase(PhaseIdle)
		return
	}
	if smooth && e.offset != e.geo.OffsetForIndex(i) {
		e.startSnap(i, TriggerScroll, true)
		return
	}
	e.align(i)
}

// Destroy cancels pending frames and detaches all handlers. Every later call
// is a no-op.
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	e.cancelFrame()
	e.destroyed = true
	e.phase = PhaseIdle
	e.changed, e.picked, e.detent, e.phased = nil, nil, nil, nil
}

// Frame is the visual output of one frame.
type Frame struct {
	Offset      float64
	VisualIndex float64
	Phase       Phase
	// Rows holds one projection per item when perspective is enabled.
	Rows []Projection
}

// Frame returns the current visual output.
func (e *Engine) Frame() Frame {
	f := Frame{Offset: e.offset, VisualIndex: e.VisualIndex(), Phase: e.phase}
	if e.cfg.Perspective.Enabled {
		f.Rows = make([]Projection, len(e.items))
		for i := range e.items {
			f.Rows[i] = e.projector.Project(i, f.VisualIndex)
		}
	}
	return f
}

// Project returns the projection of row i for the current offset.
func (e *Engine) Project(i int) Projection {
	return e.projector.Project(i, e.VisualIndex())
}

// Projector returns the projector derived from the configuration.
func (e *Engine) Projector() Projector {
	return e.projector
}

func (e *Engine) currentIndex() int {
	if !e.hasValue || len(e.items) == 0 {
		return -1
	}
	if e.current >= 0 && e.current < len(e.items) && e.items[e.current].Value == e.value {
		return e.current
	}
	e.current = IndexOfValue(e.items, e.value)
	return e.current
}

func (e *Engine) setCurrent(i int) {
	e.current = i
	e.value = e.items[i].Value
	e.hasValue = true
}

// commit makes i the committed item and notifies according to mode.
func (e *Engine) commit(i int, trigger Trigger, mode notify) {
	if i < 0 || i >= len(e.items) {
		return
	}
	item := e.items[i]
	changed := !e.hasValue || e.value != item.Value
	e.setCurrent(i)
	e.logger.Debug("commit", "index", i, "value", item.Value, "trigger", trigger.String(), "changed", changed)

	if mode == notifySilent {
		return
	}
	if mode == notifyAll && e.picked != nil {
		e.picked(PickEvent{Index: i, Value: item.Value, Item: item, Trigger: trigger})
	}
	if changed && e.changed != nil {
		e.changed(ChangeEvent{Index: i, Value: item.Value, Item: item})
	}
}

func (e *Engine) setPhase(p Phase) {
	if e.phase == p {
		return
	}
	from := e.phase
	e.phase = p
	e.logger.Debug("phase", "from", from.String(), "to", p.String(), "offset", e.offset)
	if e.phased != nil {
		e.phased(from, p)
	}
}

// setOffset moves the track. When live is set, crossing into another row
// emits a detent and, for enabled rows, a pick with trigger.
func (e *Engine) setOffset(y float64, live bool, trigger Trigger) {
	e.offset = y
	i := e.geo.NearestIndex(y)
	if i == e.visual {
		return
	}
	e.visual = i
	if !live || len(e.items) == 0 {
		return
	}
	if e.detent != nil {
		e.detent(i)
	}
	if enabled(e.items, i) && e.picked != nil {
		item := e.items[i]
		e.picked(PickEvent{Index: i, Value: item.Value, Item: item, Trigger: trigger})
	}
}

// align jumps to the exact offset of i and goes idle.
func (e *Engine) align(i int) {
	if e.geo.Valid() {
		e.setOffset(e.geo.OffsetForIndex(i), false, TriggerScroll)
	}
	e.setPhase(PhaseIdle)
}

func (e *Engine) cancelFrame() {
	if e.frame != nil {
		e.frame.Cancel()
		e.frame = nil
	}
}

func (e *Engine) requestFrame(fn FrameFunc) {
	e.cancelFrame()
	e.frame = e.sched.RequestFrame(func(now time.Duration) {
		e.frame = nil
		if e.destroyed {
			return
		}
		fn(now)
	})
}

// halt cancels motion and forgets any gesture in progress.
func (e *Engine) halt() {
	e.cancelFrame()
	e.drag = dragState{}
	e.tracker.Reset()
	e.wheelAcc = 0
}

// interactive reports whether user input may move the wheel.
func (e *Engine) interactive() bool {
	return !e.destroyed && !e.disabled && len(e.items) > 0 && e.geo.Valid()
}

func (e *Engine) snapDuration(i int, trigger Trigger) (time.Duration, Easing) {
	d := e.cfg.SnapDuration
	if trigger == TriggerWheel {
		d = e.cfg.SnapDurationWheel
	}
	if e.geo.IsEdge(i) {
		return time.Duration(float64(d) * e.cfg.EdgeSnapFactor), EaseOutQuint
	}
	return d, EaseOutCubic
}

func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func clampf(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
