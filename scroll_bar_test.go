package tpick

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeScrollMetrics(t *testing.T) {
	tests := []struct {
		name       string
		track      int
		content    int
		viewport   int
		offset     int
		thumbLen   int
		thumbStart int
	}{
		{"top", 5, 1000, 100, 0, 8, 0},
		{"middle", 5, 1000, 100, 450, 8, 16},
		{"bottom", 5, 1000, 100, 900, 8, 32},
		{"past end", 5, 1000, 100, 5000, 8, 32},
		{"proportional", 4, 200, 100, 100, 16, 16},
		{"fits", 5, 100, 100, 0, 40, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := computeScrollMetrics(tt.track, tt.content, tt.viewport, tt.offset)
			assert.Equal(t, tt.track*subcell, m.trackLen)
			assert.Equal(t, tt.thumbLen, m.thumbLen)
			assert.Equal(t, tt.thumbStart, m.thumbStart)
		})
	}

	assert.Equal(t, scrollMetrics{}, computeScrollMetrics(0, 10, 1, 0))
}

func TestCellFill(t *testing.T) {
	m := scrollMetrics{trackCells: 5, trackLen: 40, thumbLen: 8, thumbStart: 12}

	start, fill := cellFill(m, 0)
	assert.Zero(t, start)
	assert.Zero(t, fill)

	start, fill = cellFill(m, 1)
	assert.Equal(t, 4, start)
	assert.Equal(t, 4, fill)

	start, fill = cellFill(m, 2)
	assert.Equal(t, 0, start)
	assert.Equal(t, 4, fill)
}

func TestScrollBarDrawsThumbAtOffset(t *testing.T) {
	screen := newTestScreen(t, 1, 5)
	bar := NewScrollBar().SetGlyphSet(UnicodeGlyphSet())
	bar.SetRect(0, 0, 1, 5)
	bar.SetLengths(ScrollLengths{ContentLen: 1000, ViewportLen: 100})

	bar.SetOffset(900)
	assert.Equal(t, 900, bar.Offset())
	bar.Draw(screen)

	assert.Equal(t, BoxDrawingsLightVertical, rowText(screen, 0, 0, 1))
	assert.Equal(t, BlockFullBlock, rowText(screen, 4, 0, 1))
}

func TestScrollBarAutoHide(t *testing.T) {
	screen := newTestScreen(t, 1, 3)
	bar := NewScrollBar()
	bar.SetRect(0, 0, 1, 3)
	bar.SetLengths(ScrollLengths{ContentLen: 2, ViewportLen: 5})
	bar.Draw(screen)

	assert.Equal(t, "   ", rowText(screen, 0, 0, 1)+rowText(screen, 1, 0, 1)+rowText(screen, 2, 0, 1))
}

func TestParseGlyphSet(t *testing.T) {
	g, err := ParseGlyphSet("")
	assert.NoError(t, err)
	assert.Equal(t, UnicodeGlyphSet(), g)

	g, err = ParseGlyphSet(" Minimal ")
	assert.NoError(t, err)
	assert.Equal(t, " ", g.Track)

	g, err = ParseGlyphSet("legacy")
	assert.NoError(t, err)
	assert.Equal(t, "\U0001fb82", g.ThumbUpper[1])
	assert.Equal(t, UnicodeGlyphSet().ThumbLower, g.ThumbLower)

	_, err = ParseGlyphSet("fancy")
	assert.ErrorContains(t, err, `"fancy"`)
}

func TestScrollBarArrows(t *testing.T) {
	screen := newTestScreen(t, 1, 6)
	bar := NewScrollBar().SetArrows(true)
	bar.SetRect(0, 0, 1, 6)
	bar.SetPosition(10, 0)
	bar.Draw(screen)

	assert.Equal(t, GeometricBlackUpPointingTriangle, rowText(screen, 0, 0, 1))
	assert.Equal(t, BlockFullBlock, rowText(screen, 1, 0, 1))
	assert.Equal(t, BoxDrawingsLightVertical, rowText(screen, 4, 0, 1))
	assert.Equal(t, GeometricBlackDownPointingTriangle, rowText(screen, 5, 0, 1))
}

func TestScrollBarMinimalTrack(t *testing.T) {
	screen := newTestScreen(t, 1, 4)
	bar := NewScrollBar().SetGlyphSet(MinimalGlyphSet())
	bar.SetRect(0, 0, 1, 4)
	bar.SetPosition(4, 3)
	bar.Draw(screen)

	assert.Equal(t, 300, bar.Offset())
	assert.Equal(t, "   ", rowText(screen, 0, 0, 1)+rowText(screen, 1, 0, 1)+rowText(screen, 2, 0, 1))
	assert.Equal(t, BlockFullBlock, rowText(screen, 3, 0, 1))
}
