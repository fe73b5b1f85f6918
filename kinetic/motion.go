package kinetic

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// frameMs is the nominal frame length friction is expressed against.
const frameMs = 16.67

// inertiaBody is the integrated state of free motion. raw is the
// unconstrained position; offset is raw after the rubber band.
type inertiaBody struct {
	raw    float64
	offset float64
	v      float64 // px/ms
}

type inertiaOutcome int

const (
	inertiaRunning inertiaOutcome = iota
	inertiaSettle
	inertiaSpringBack
)

// stepInertia advances free motion by dt milliseconds. Speed never grows:
// friction always applies, and past a boundary the spring pseudo-force only
// eats into outward velocity before the boundary damping is applied.
func stepInertia(b inertiaBody, dt float64, g Geometry, cfg Config, maxOver float64) (inertiaBody, inertiaOutcome) {
	raw := b.raw + b.v*dt
	v := b.v

	over := g.Overscroll(raw)
	offset := elastic(raw, g, cfg, maxOver)
	if over != 0 {
		shown := math.Abs(g.Overscroll(offset))
		if math.Abs(v) < 0.5 && shown > 0.3*maxOver {
			return inertiaBody{raw: raw, offset: offset, v: v}, inertiaSpringBack
		}
		if sign(v) == sign(over) {
			k := cfg.SpringK * (1 + math.Min(1, math.Abs(v)/2))
			v = math.Copysign(math.Max(0, math.Abs(v)-k*math.Abs(over)*dt), v)
		}
		v *= cfg.BoundaryDamping
	}
	v *= math.Pow(cfg.Friction, dt/frameMs)
	next := inertiaBody{raw: raw, offset: offset, v: v}

	speed := math.Abs(v)
	if over != 0 {
		if speed < cfg.MinFlingVelocity {
			return next, inertiaSpringBack
		}
		return next, inertiaRunning
	}

	i := g.NearestIndex(offset)
	if g.IsEdge(i) {
		if speed < cfg.EdgeStopVelocity {
			return next, inertiaSettle
		}
		return next, inertiaRunning
	}
	nearSnap := math.Abs(offset-g.OffsetForIndex(i)) <= cfg.NearSnap
	if speed < cfg.MinVelocity || (nearSnap && speed < cfg.SettleVelocity) {
		return next, inertiaSettle
	}
	return next, inertiaRunning
}

func (e *Engine) startInertia(v float64) {
	limit := e.cfg.MaxVelocity
	if e.geo.NearEdge(e.geo.NearestIndex(e.offset)) {
		limit = e.cfg.MaxVelocityNearEdge
	}
	e.inertia = inertiaBody{raw: e.offset, offset: e.offset, v: clampf(v, -limit, limit)}
	e.last = e.sched.Now()
	e.setPhase(PhaseInertia)
	e.requestFrame(e.inertiaFrame)
}

func (e *Engine) inertiaFrame(now time.Duration) {
	dt := math.Max(1, ms(now-e.last))
	e.last = now

	body, outcome := stepInertia(e.inertia, dt, e.geo, e.cfg, e.maxOver)
	e.inertia = body
	e.setOffset(body.offset, true, TriggerScroll)

	switch outcome {
	case inertiaSettle:
		i := FirstEnabledFrom(e.items, e.geo.NearestIndex(e.offset))
		e.startSnap(i, TriggerScroll, false)
	case inertiaSpringBack:
		e.startSpringBack(TriggerScroll)
	default:
		e.requestFrame(e.inertiaFrame)
	}
}

type snapState struct {
	target  int
	trigger Trigger
	silent  bool
	tween   tween
}

// startSnap tweens to the exact offset of index i. Starting outside the
// legal range clamps first so that snapping never leaves it.
func (e *Engine) startSnap(i int, trigger Trigger, silent bool) {
	e.cancelFrame()
	from := e.geo.Clamp(e.offset)
	if from != e.offset {
		e.setOffset(from, false, trigger)
	}
	duration, ease := e.snapDuration(i, trigger)
	e.snap = snapState{
		target:  i,
		trigger: trigger,
		silent:  silent,
		tween: tween{
			from:     from,
			to:       e.geo.OffsetForIndex(i),
			start:    e.sched.Now(),
			duration: duration,
			ease:     ease,
		},
	}
	e.setPhase(PhaseSnapping)
	if duration <= 0 || from == e.snap.tween.to {
		e.finishSnap()
		return
	}
	e.requestFrame(e.snapFrame)
}

func (e *Engine) snapFrame(now time.Duration) {
	y, done := e.snap.tween.at(now)
	e.setOffset(y, false, e.snap.trigger)
	if done {
		e.finishSnap()
		return
	}
	e.requestFrame(e.snapFrame)
}

func (e *Engine) finishSnap() {
	s := e.snap
	e.setOffset(s.tween.to, false, s.trigger)
	e.setPhase(PhaseIdle)
	mode := notifyAll
	if s.silent {
		mode = notifySilent
	}
	e.commit(s.target, s.trigger, mode)
}

// springState drives the return from overscroll. In bounce mode the offset
// follows a damped harmonic oscillator; in ease mode a quart tween.
type springState struct {
	target   int
	trigger  Trigger
	to       float64
	start    time.Duration
	last     time.Duration
	deadline time.Duration

	spring harmonica.Spring
	pos    float64
	vel    float64 // px/s

	tween tween
}

// springFPS is the fixed integration rate of the bounce spring.
const springFPS = 60

// springDuration is the time budget for returning over distance pixels.
func springDuration(cfg Config, distance float64) time.Duration {
	ceiling := 1.6
	if cfg.SpringBackMode == SpringBackEase {
		ceiling = 1.5
	}
	base := cfg.SpringBackDuration
	d := base + time.Duration(distance*0.3*float64(time.Millisecond))
	return min(d, time.Duration(float64(base)*ceiling))
}

// startSpringBack returns to the nearest boundary index.
func (e *Engine) startSpringBack(trigger Trigger) {
	e.cancelFrame()
	i := 0
	if e.geo.Overscroll(e.offset) < 0 || (e.geo.Overscroll(e.offset) == 0 && e.VisualIndex() > float64(e.geo.Count-1)/2) {
		i = e.geo.Count - 1
	}
	i = FirstEnabledFrom(e.items, i)

	to := e.geo.OffsetForIndex(i)
	now := e.sched.Now()
	duration := springDuration(e.cfg, math.Abs(e.offset-to))
	e.spring = springState{
		target:   i,
		trigger:  trigger,
		to:       to,
		start:    now,
		last:     now,
		deadline: now + duration,
		spring:   harmonica.NewSpring(harmonica.FPS(springFPS), e.cfg.SpringFrequency, e.cfg.SpringDamping),
		pos:      e.offset,
		tween: tween{
			from:     e.offset,
			to:       to,
			start:    now,
			duration: duration,
			ease:     EaseOutQuart,
		},
	}
	e.setPhase(PhaseBoundarySpring)
	e.requestFrame(e.springFrame)
}

// stepSpring advances the bounce spring to now. It reports whether the
// spring has come to rest or ran out of time; the final position is then
// exactly the target.
func stepSpring(s springState, now time.Duration) (springState, bool) {
	if now >= s.deadline {
		s.pos, s.vel = s.to, 0
		return s, true
	}
	frame := time.Second / springFPS
	steps := max(1, int(math.Round(float64(now-s.last)/float64(frame))))
	for range steps {
		s.pos, s.vel = s.spring.Update(s.pos, s.vel, s.to)
	}
	s.last = now
	if math.Abs(s.pos-s.to) < 0.5 && math.Abs(s.vel) < 1 {
		s.pos, s.vel = s.to, 0
		return s, true
	}
	return s, false
}

func (e *Engine) springFrame(now time.Duration) {
	var (
		y    float64
		done bool
	)
	if e.cfg.SpringBackMode == SpringBackEase {
		y, done = e.spring.tween.at(now)
	} else {
		e.spring, done = stepSpring(e.spring, now)
		y = e.spring.pos
	}
	e.setOffset(y, false, e.spring.trigger)
	if !done {
		e.requestFrame(e.springFrame)
		return
	}
	e.setOffset(e.spring.to, false, e.spring.trigger)
	e.setPhase(PhaseIdle)
	e.commit(e.spring.target, e.spring.trigger, notifyAll)
}
