package kinetic

import "math"

// RubberBand damps an overshoot past a boundary. Small overshoots move
// almost linearly; large ones approach dimension*(1-resistance). A higher
// resistance gives a stiffer boundary. The sign of overshoot is preserved.
func RubberBand(overshoot, dimension, resistance, steepness float64) float64 {
	if dimension <= 0 {
		return 0
	}
	return rubberBand(overshoot, dimension*(1-clampResistance(resistance)), steepness)
}

func clampResistance(r float64) float64 {
	return math.Min(0.95, math.Max(0.05, r))
}

// rubberBand saturates towards limit.
func rubberBand(overshoot, limit, steepness float64) float64 {
	if overshoot == 0 || limit <= 0 {
		return 0
	}
	if steepness <= 0 {
		steepness = 1
	}
	// Normalised so the slope at zero is steepness/2 regardless of limit.
	damped := limit * math.Tanh(math.Abs(overshoot)/limit*steepness/2)
	return math.Copysign(damped, overshoot)
}

// elastic routes an out-of-bounds offset through the rubber band. The curve
// saturates at maxOver when that is tighter than the band's own limit, so
// the excursion never exceeds it. In-bounds offsets are returned unchanged.
func elastic(y float64, g Geometry, cfg Config, maxOver float64) float64 {
	over := g.Overscroll(y)
	if over == 0 {
		return y
	}
	limit := math.Min(maxOver, g.ViewportHeight*(1-clampResistance(cfg.Resistance)))
	return y - over + rubberBand(over, limit, cfg.Steepness)
}
