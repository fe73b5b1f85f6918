package kinetic

import "math"

// Geometry maps between the track offset and list indices. The offset is
// the translation applied to the list so that row i is centred when
// offset == OffsetForIndex(i).
type Geometry struct {
	ItemHeight     float64
	ViewportHeight float64
	Count          int
}

// Valid reports whether both heights have been measured.
func (g Geometry) Valid() bool {
	return g.ItemHeight > 0 && g.ViewportHeight > 0
}

// CenterOffset is the offset at which index 0 sits in the middle of the
// viewport.
func (g Geometry) CenterOffset() float64 {
	return (g.ViewportHeight - g.ItemHeight) / 2
}

func (g Geometry) OffsetForIndex(i int) float64 {
	return g.CenterOffset() - float64(i)*g.ItemHeight
}

// IndexForOffset returns the fractional index centred at offset y.
func (g Geometry) IndexForOffset(y float64) float64 {
	if g.ItemHeight <= 0 {
		return 0
	}
	return (g.CenterOffset() - y) / g.ItemHeight
}

// ClampIndex rounds f and clamps it to [0, Count-1]. An empty list clamps
// to 0.
func (g Geometry) ClampIndex(f float64) int {
	if g.Count <= 0 || math.IsNaN(f) {
		return 0
	}
	i := math.Round(f)
	if i < 0 {
		return 0
	}
	if i > float64(g.Count-1) {
		return g.Count - 1
	}
	return int(i)
}

// NearestIndex returns the clamped index closest to offset y.
func (g Geometry) NearestIndex(y float64) int {
	return g.ClampIndex(g.IndexForOffset(y))
}

// Bounds returns the legal offset range. minY belongs to the last index and
// maxY to the first one.
func (g Geometry) Bounds() (minY, maxY float64) {
	last := max(g.Count-1, 0)
	return g.OffsetForIndex(last), g.OffsetForIndex(0)
}

// Clamp limits y to the legal offset range.
func (g Geometry) Clamp(y float64) float64 {
	minY, maxY := g.Bounds()
	return math.Max(minY, math.Min(maxY, y))
}

// Overscroll returns how far y lies outside the legal range. It is positive
// past the first item, negative past the last one and zero inside.
func (g Geometry) Overscroll(y float64) float64 {
	minY, maxY := g.Bounds()
	switch {
	case y > maxY:
		return y - maxY
	case y < minY:
		return y - minY
	}
	return 0
}

// IsEdge reports whether i is the first or last index.
func (g Geometry) IsEdge(i int) bool {
	return i <= 0 || i >= g.Count-1
}

// NearEdge reports whether i is within the first or last two rows.
func (g Geometry) NearEdge(i int) bool {
	return i <= 1 || i >= g.Count-2
}
