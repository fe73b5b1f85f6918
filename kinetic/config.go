package kinetic

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// SpringBackMode selects the curve used to return from boundary overscroll.
type SpringBackMode int

const (
	// SpringBackBounce overshoots the boundary slightly and settles, driven
	// by a damped harmonic oscillator.
	SpringBackBounce SpringBackMode = iota
	// SpringBackEase returns monotonically with an ease-out quart curve.
	SpringBackEase
)

func (m SpringBackMode) String() string {
	switch m {
	case SpringBackBounce:
		return "bounce"
	case SpringBackEase:
		return "ease"
	}
	return fmt.Sprintf("SpringBackMode(%d)", int(m))
}

// ParseSpringBackMode parses "bounce" or "ease".
func ParseSpringBackMode(s string) (SpringBackMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bounce", "":
		return SpringBackBounce, nil
	case "ease":
		return SpringBackEase, nil
	}
	return SpringBackBounce, &ConfigError{Field: "SpringBackMode", Value: s, Reason: `must be "bounce" or "ease"`}
}

// Perspective configures the optional cylindrical projection of rows.
// Zero angles are derived from the visible item count.
type Perspective struct {
	Enabled bool

	StepDeg         float64 // Angle between two adjacent rows.
	MaxAngleDeg     float64 // Rows never rotate further than this.
	VisibleRangeDeg float64 // Total angular window in which rows are visible.

	MinScale   float64
	MinOpacity float64
}

// Config holds every tuning value of the engine. Start from DefaultConfig and
// override what you need.
type Config struct {
	// ItemHeight is the height of one row in pixels.
	ItemHeight float64
	// VisibleItems is the number of rows shown in the viewport.
	VisibleItems int
	// ViewportHeight overrides VisibleItems*ItemHeight when positive.
	ViewportHeight float64

	// Friction is the per-16.67ms velocity retention during inertia, in (0,1).
	Friction float64
	// Resistance makes the boundary stiffer as it approaches 1.
	Resistance float64
	// Steepness scales how fast the rubber band saturates.
	Steepness float64
	// MaxOverscroll caps the boundary excursion in pixels. When zero,
	// MaxOverscrollRatio of the viewport height is used.
	MaxOverscroll      float64
	MaxOverscrollRatio float64

	SnapDuration      time.Duration
	SnapDurationWheel time.Duration
	// EdgeSnapFactor stretches snaps that land on the first or last index.
	EdgeSnapFactor float64

	Momentum bool

	// InitialValue selects the starting item by value. When empty or not
	// found, InitialIndex is used.
	InitialValue string
	InitialIndex int

	// DragThreshold is the movement in pixels below which a gesture is a tap.
	DragThreshold float64
	// DragFollow is the ratio of offset movement to pointer movement.
	DragFollow float64
	// VelocityWindow is how far back velocity samples are kept. Below the
	// drag threshold TapVelocityWindow is used instead.
	VelocityWindow    time.Duration
	TapVelocityWindow time.Duration

	// Velocities are in px/ms.
	MinFlingVelocity    float64
	MaxVelocity         float64
	MaxVelocityNearEdge float64
	MinVelocity         float64
	SettleVelocity      float64
	EdgeStopVelocity    float64
	// NearSnap is the distance in pixels to an item centre at which inertia
	// may hand over to snapping early.
	NearSnap float64

	// SpringK is the boundary pseudo-force constant during inertia.
	SpringK         float64
	BoundaryDamping float64

	SpringBackMode     SpringBackMode
	SpringBackDuration time.Duration
	SpringFrequency    float64
	SpringDamping      float64

	// WheelLineThreshold separates trackpad-like pixel deltas, which
	// accumulate, from wheel notches, which step.
	WheelLineThreshold float64
	// WheelJumpPixels is the pixel delta worth one step for large deltas.
	WheelJumpPixels float64

	Perspective Perspective
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		ItemHeight:         36,
		VisibleItems:       5,
		Friction:           0.92,
		Resistance:         0.7,
		Steepness:          2,
		MaxOverscrollRatio: 0.5,

		SnapDuration:      300 * time.Millisecond,
		SnapDurationWheel: 150 * time.Millisecond,
		EdgeSnapFactor:    1.2,

		Momentum: true,

		DragThreshold:     4,
		DragFollow:        1,
		VelocityWindow:    150 * time.Millisecond,
		TapVelocityWindow: 120 * time.Millisecond,

		MinFlingVelocity:    0.1,
		MaxVelocity:         5,
		MaxVelocityNearEdge: 3,
		MinVelocity:         0.02,
		SettleVelocity:      0.25,
		EdgeStopVelocity:    0.05,
		NearSnap:            0.5,

		SpringK:         0.0008,
		BoundaryDamping: 0.92,

		SpringBackMode:     SpringBackBounce,
		SpringBackDuration: 500 * time.Millisecond,
		SpringFrequency:    9,
		SpringDamping:      0.55,

		WheelLineThreshold: 20,
		WheelJumpPixels:    100,

		Perspective: Perspective{
			MinScale:   0.85,
			MinOpacity: 0.6,
		},
	}
}

// Viewport returns the effective viewport height in pixels.
func (c Config) Viewport() float64 {
	if c.ViewportHeight > 0 {
		return c.ViewportHeight
	}
	return float64(c.VisibleItems) * c.ItemHeight
}

// Overscroll returns the effective maximum overscroll for a viewport height.
func (c Config) Overscroll(viewport float64) float64 {
	if c.MaxOverscroll > 0 {
		return c.MaxOverscroll
	}
	return viewport * c.MaxOverscrollRatio
}

// normalized replaces unusable values with defaults so the engine never has
// to guard against them. Geometry is left alone: zero heights mean "not
// measured yet".
func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.VisibleItems <= 0 {
		c.VisibleItems = d.VisibleItems
	}
	if c.Friction <= 0 || c.Friction >= 1 || math.IsNaN(c.Friction) {
		c.Friction = d.Friction
	}
	if c.Resistance < 0 || c.Resistance > 1 || math.IsNaN(c.Resistance) {
		c.Resistance = d.Resistance
	}
	if c.Steepness <= 0 {
		c.Steepness = d.Steepness
	}
	if c.MaxOverscroll < 0 {
		c.MaxOverscroll = 0
	}
	if c.MaxOverscrollRatio <= 0 {
		c.MaxOverscrollRatio = d.MaxOverscrollRatio
	}
	if c.SnapDuration < 0 {
		c.SnapDuration = d.SnapDuration
	}
	if c.SnapDurationWheel < 0 {
		c.SnapDurationWheel = d.SnapDurationWheel
	}
	if c.EdgeSnapFactor < 1 {
		c.EdgeSnapFactor = 1
	}
	if c.DragThreshold < 0 {
		c.DragThreshold = d.DragThreshold
	}
	if c.DragFollow <= 0 {
		c.DragFollow = d.DragFollow
	}
	if c.VelocityWindow <= 0 {
		c.VelocityWindow = d.VelocityWindow
	}
	if c.TapVelocityWindow <= 0 {
		c.TapVelocityWindow = d.TapVelocityWindow
	}
	if c.MaxVelocity <= 0 {
		c.MaxVelocity = d.MaxVelocity
	}
	if c.MaxVelocityNearEdge <= 0 {
		c.MaxVelocityNearEdge = c.MaxVelocity
	}
	if c.MinVelocity <= 0 {
		c.MinVelocity = d.MinVelocity
	}
	if c.EdgeStopVelocity <= 0 {
		c.EdgeStopVelocity = d.EdgeStopVelocity
	}
	if c.BoundaryDamping <= 0 || c.BoundaryDamping > 1 {
		c.BoundaryDamping = d.BoundaryDamping
	}
	if c.SpringBackDuration <= 0 {
		c.SpringBackDuration = d.SpringBackDuration
	}
	if c.SpringFrequency <= 0 {
		c.SpringFrequency = d.SpringFrequency
	}
	if c.SpringDamping <= 0 {
		c.SpringDamping = d.SpringDamping
	}
	if c.WheelLineThreshold <= 0 {
		c.WheelLineThreshold = d.WheelLineThreshold
	}
	if c.WheelJumpPixels <= 0 {
		c.WheelJumpPixels = d.WheelJumpPixels
	}
	if c.Perspective.MinScale <= 0 || c.Perspective.MinScale > 1 {
		c.Perspective.MinScale = d.Perspective.MinScale
	}
	if c.Perspective.MinOpacity <= 0 || c.Perspective.MinOpacity > 1 {
		c.Perspective.MinOpacity = d.Perspective.MinOpacity
	}
	return c
}

// Validate reports every value that is out of range. The
// engine itself never fails on a bad config; it falls back to defaults.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, field string, value any, reason string) {
		if !ok {
			errs = append(errs, &ConfigError{Field: field, Value: value, Reason: reason})
		}
	}

	check(c.ItemHeight > 0, "ItemHeight", c.ItemHeight, "must be positive")
	check(c.VisibleItems > 0, "VisibleItems", c.VisibleItems, "must be positive")
	check(c.ViewportHeight >= 0, "ViewportHeight", c.ViewportHeight, "must not be negative")
	check(c.Friction > 0 && c.Friction < 1, "Friction", c.Friction, "must be between 0 and 1")
	check(c.Resistance >= 0 && c.Resistance <= 1, "Resistance", c.Resistance, "must be between 0 and 1")
	check(c.MaxOverscroll >= 0, "MaxOverscroll", c.MaxOverscroll, "must not be negative")
	check(c.MaxOverscrollRatio >= 0 && c.MaxOverscrollRatio <= 1, "MaxOverscrollRatio", c.MaxOverscrollRatio, "must be between 0 and 1")
	check(c.SnapDuration >= 0, "SnapDuration", c.SnapDuration, "must not be negative")
	check(c.SnapDurationWheel >= 0, "SnapDurationWheel", c.SnapDurationWheel, "must not be negative")
	check(c.DragFollow > 0, "DragFollow", c.DragFollow, "must be positive")
	check(c.SpringBackMode == SpringBackBounce || c.SpringBackMode == SpringBackEase, "SpringBackMode", c.SpringBackMode, "unknown mode")
	check(c.Perspective.MinScale >= 0 && c.Perspective.MinScale <= 1, "Perspective.MinScale", c.Perspective.MinScale, "must be between 0 and 1")
	check(c.Perspective.MinOpacity >= 0 && c.Perspective.MinOpacity <= 1, "Perspective.MinOpacity", c.Perspective.MinOpacity, "must be between 0 and 1")

	return errors.Join(errs...)
}
