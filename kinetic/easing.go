package kinetic

import (
	"math"
	"time"
)

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(t float64) float64

func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

func EaseOutQuart(t float64) float64 {
	return 1 - math.Pow(1-t, 4)
}

func EaseOutQuint(t float64) float64 {
	return 1 - math.Pow(1-t, 5)
}

// tween is a time-bounded eased interpolation between two offsets.
type tween struct {
	from, to float64
	start    time.Duration
	duration time.Duration
	ease     Easing
}

// at returns the interpolated offset at now and whether the tween is over.
// The final value is exactly to.
func (tw tween) at(now time.Duration) (float64, bool) {
	if tw.duration <= 0 {
		return tw.to, true
	}
	p := float64(now-tw.start) / float64(tw.duration)
	if p >= 1 {
		return tw.to, true
	}
	if p < 0 {
		p = 0
	}
	return tw.from + (tw.to-tw.from)*tw.ease(p), false
}
