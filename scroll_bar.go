package tpick

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// ScrollLengths bundles content and viewport lengths in logical units.
type ScrollLengths struct {
	ContentLen  int
	ViewportLen int
}

// Eighths of a cell the thumb can move by.
const subcell = 8

// Logical units per item when the bar tracks an item position.
const positionUnit = 100

// GlyphSet defines the track, arrow and fractional thumb glyphs.
type GlyphSet struct {
	Track string

	ArrowUp   string
	ArrowDown string

	// Thumb glyphs filling 1/8 to 8/8 of a cell from the bottom or the top.
	ThumbLower [subcell]string
	ThumbUpper [subcell]string
}

var thumbLower = [subcell]string{
	BlockLowerOneEighthBlock, BlockLowerOneQuarterBlock, BlockLowerThreeEighthsBlock, BlockLowerHalfBlock,
	BlockLowerFiveEighthsBlock, BlockLowerThreeQuartersBlock, BlockLowerSevenEighthsBlock, BlockFullBlock,
}

// UnicodeGlyphSet approximates upper fractions with half and full blocks.
func UnicodeGlyphSet() GlyphSet {
	return GlyphSet{
		Track:      BoxDrawingsLightVertical,
		ArrowUp:    GeometricBlackUpPointingTriangle,
		ArrowDown:  GeometricBlackDownPointingTriangle,
		ThumbLower: thumbLower,
		ThumbUpper: [subcell]string{
			BlockUpperOneEighthBlock, BlockUpperOneEighthBlock, BlockUpperHalfBlock, BlockUpperHalfBlock,
			BlockUpperHalfBlock, BlockUpperHalfBlock, BlockFullBlock, BlockFullBlock,
		},
	}
}

// LegacyComputingGlyphSet uses the Symbols for Legacy Computing block for
// exact upper eighths. Not every terminal font has them.
func LegacyComputingGlyphSet() GlyphSet {
	g := UnicodeGlyphSet()
	g.ThumbUpper = [subcell]string{
		BlockUpperOneEighthBlock, "\U0001fb82", "\U0001fb83", BlockUpperHalfBlock,
		"\U0001fb84", "\U0001fb85", "\U0001fb86", BlockFullBlock,
	}
	return g
}

// MinimalGlyphSet draws only the thumb over a blank track.
func MinimalGlyphSet() GlyphSet {
	g := UnicodeGlyphSet()
	g.Track = " "
	return g
}

// ParseGlyphSet returns the glyph set called name: "unicode" (the default),
// "legacy" or "minimal".
func ParseGlyphSet(name string) (GlyphSet, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "unicode":
		return UnicodeGlyphSet(), nil
	case "legacy":
		return LegacyComputingGlyphSet(), nil
	case "minimal":
		return MinimalGlyphSet(), nil
	}
	return GlyphSet{}, fmt.Errorf("unknown scroll bar glyphs %q", name)
}

// ScrollBar is a one-column vertical bar. The picker uses it as a position
// indicator whose thumb follows the fractional visual index.
type ScrollBar struct {
	*Box

	arrows      bool
	contentLen  int
	viewportLen int
	offset      int

	trackStyle tcell.Style
	thumbStyle tcell.Style

	glyphs GlyphSet
}

// NewScrollBar returns an auto-hiding bar with the Unicode glyph set.
func NewScrollBar() *ScrollBar {
	return &ScrollBar{
		Box:        NewBox(),
		trackStyle: tcell.StyleDefault.Dim(true),
		thumbStyle: tcell.StyleDefault,
		glyphs:     UnicodeGlyphSet(),
	}
}

// SetLengths sets content and viewport lengths.
func (s *ScrollBar) SetLengths(lengths ScrollLengths) *ScrollBar {
	s.contentLen = max(lengths.ContentLen, 0)
	s.viewportLen = max(lengths.ViewportLen, 0)
	return s
}

// SetOffset sets the logical offset.
func (s *ScrollBar) SetOffset(offset int) *ScrollBar {
	s.offset = max(offset, 0)
	return s
}

func (s *ScrollBar) Offset() int {
	return s.offset
}

// SetPosition shows one item out of count, with index possibly between two
// items while the wheel moves.
func (s *ScrollBar) SetPosition(count int, index float64) *ScrollBar {
	s.SetLengths(ScrollLengths{ContentLen: count * positionUnit, ViewportLen: positionUnit})
	return s.SetOffset(int(index*positionUnit + 0.5))
}

func (s *ScrollBar) SetGlyphSet(g GlyphSet) *ScrollBar {
	s.glyphs = g
	return s
}

// SetArrows draws arrow caps at both ends of the track.
func (s *ScrollBar) SetArrows(arrows bool) *ScrollBar {
	s.arrows = arrows
	return s
}

func (s *ScrollBar) SetThumbStyle(style tcell.Style) *ScrollBar {
	s.thumbStyle = style
	return s
}

// SetTrackStyle sets the style of the track and the arrows.
func (s *ScrollBar) SetTrackStyle(style tcell.Style) *ScrollBar {
	s.trackStyle = style
	return s
}

type scrollMetrics struct {
	trackCells int
	trackLen   int
	thumbLen   int
	thumbStart int
}

func computeScrollMetrics(trackCells int, contentLen int, viewportLen int, offset int) scrollMetrics {
	trackLen := trackCells * subcell
	if trackLen == 0 {
		return scrollMetrics{}
	}

	contentLen = max(contentLen, 1)
	viewportLen = min(max(viewportLen, 1), contentLen)
	maxOffset := max(contentLen-viewportLen, 0)
	offset = min(max(offset, 0), maxOffset)

	if maxOffset == 0 {
		return scrollMetrics{trackCells: trackCells, trackLen: trackLen, thumbLen: trackLen}
	}

	// Subcell units let the thumb move in 1/8-cell steps.
	thumbLen := min(max((trackLen*viewportLen)/contentLen, subcell), trackLen)
	thumbStart := (max(trackLen-thumbLen, 0) * offset) / maxOffset
	return scrollMetrics{trackCells: trackCells, trackLen: trackLen, thumbLen: thumbLen, thumbStart: thumbStart}
}

// cellFill returns the cell-local start and length, in eighths, of the
// part of the thumb inside cell cellIndex.
func cellFill(m scrollMetrics, cellIndex int) (start int, fillLen int) {
	if m.thumbLen == 0 {
		return 0, 0
	}
	cellStart := cellIndex * subcell
	start = max(m.thumbStart, cellStart)
	end := min(m.thumbStart+m.thumbLen, cellStart+subcell)
	if end <= start {
		return 0, 0
	}
	return start - cellStart, end - start
}

func (s *ScrollBar) glyph(start, fillLen int) (string, tcell.Style) {
	switch {
	case fillLen <= 0:
		return s.glyphs.Track, s.trackStyle
	case fillLen >= subcell:
		return s.glyphs.ThumbLower[subcell-1], s.thumbStyle
	case start == 0:
		return s.glyphs.ThumbUpper[fillLen-1], s.thumbStyle
	}
	return s.glyphs.ThumbLower[fillLen-1], s.thumbStyle
}

// Draw draws the bar in the first column of the inner rect.
func (s *ScrollBar) Draw(screen tcell.Screen) {
	s.DrawForSubclass(screen, s)

	x, y, _, height := s.GetInnerRect()
	if height <= 0 || s.contentLen <= 0 {
		return
	}
	viewport := s.viewportLen
	if viewport <= 0 {
		viewport = height
	}
	// Hidden when everything fits.
	if s.contentLen <= viewport {
		return
	}

	track := height
	if s.arrows {
		track = max(height-2, 0)
	}
	m := computeScrollMetrics(track, s.contentLen, viewport, s.offset)
	if m.trackLen == 0 {
		return
	}

	if s.arrows {
		put(screen, x, y, s.glyphs.ArrowUp, s.trackStyle)
		put(screen, x, y+height-1, s.glyphs.ArrowDown, s.trackStyle)
		y++
	}
	for cell := range m.trackCells {
		glyph, style := s.glyph(cellFill(m, cell))
		put(screen, x, y+cell, glyph, style)
	}
}

var _ Primitive = &ScrollBar{}
