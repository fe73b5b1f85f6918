package kinetic

import "math"

// Projection is the appearance of one row on the wheel cylinder.
type Projection struct {
	AngleDeg float64
	Scale    float64
	Opacity  float64
	Visible  bool
}

// Projector evaluates row appearance from the visual index. It holds only
// static configuration and is safe to copy.
type Projector struct {
	StepDeg         float64
	MaxAngleDeg     float64
	VisibleRangeDeg float64
	MinScale        float64
	MinOpacity      float64

	half float64
}

// NewProjector derives unset angles from the number of visible rows.
func NewProjector(p Perspective, visibleItems int) Projector {
	n := max(visibleItems, 1)
	half := math.Max(1, float64(n/2))

	step := p.StepDeg
	if step <= 0 {
		if n <= 3 {
			step = 30
		} else {
			step = math.Min(25, math.Max(10, 80/float64(n)))
		}
	}
	maxAngle := p.MaxAngleDeg
	if maxAngle <= 0 {
		maxAngle = step * math.Min(half, 2)
	}
	visibleRange := p.VisibleRangeDeg
	if visibleRange <= 0 {
		visibleRange = step * float64(n)
		if n <= 3 {
			visibleRange *= 1.5
		}
	}

	minScale, minOpacity := p.MinScale, p.MinOpacity
	if minScale <= 0 || minScale > 1 {
		minScale = 0.85
	}
	if minOpacity <= 0 || minOpacity > 1 {
		minOpacity = 0.6
	}

	return Projector{
		StepDeg:         step,
		MaxAngleDeg:     maxAngle,
		VisibleRangeDeg: visibleRange,
		MinScale:        minScale,
		MinOpacity:      minOpacity,
		half:            half,
	}
}

// Project returns the appearance of row index while visualIndex is centred.
func (p Projector) Project(index int, visualIndex float64) Projection {
	dist := float64(index) - visualIndex
	angle := dist * p.StepDeg
	visible := math.Abs(angle) <= p.VisibleRangeDeg/2
	angle = math.Max(-p.MaxAngleDeg, math.Min(p.MaxAngleDeg, angle))

	scale, opacity := p.MinScale, p.MinOpacity
	half := p.half
	if half <= 0 {
		half = 1
	}
	if d := math.Abs(dist); d <= half {
		t := 1 - math.Cos(d/half*math.Pi/2)
		scale = 1 - (1-p.MinScale)*t
		opacity = 1 - (1-p.MinOpacity)*t
	}

	return Projection{AngleDeg: angle, Scale: scale, Opacity: opacity, Visible: visible}
}

// Radius returns the cylinder radius for a viewport of the given height.
func Radius(viewport float64, visibleItems int) float64 {
	if visibleItems <= 3 {
		return viewport * 1.2
	}
	return viewport * 0.8
}
