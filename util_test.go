package tpick

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func TestPrintStyledAlignment(t *testing.T) {
	screen := newTestScreen(t, 5, 2)
	style := tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorNavy)

	n, width := PrintStyled(screen, "abc", 0, 0, 5, AlignmentRight, style)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, width)
	assert.Equal(t, "  abc", rowText(screen, 0, 0, 5))

	_, _, got, _ := screen.GetContent(4, 0)
	assert.Equal(t, style, got)

	PrintStyled(screen, "xy", 0, 1, 5, AlignmentCenter, style)
	assert.Equal(t, " xy  ", rowText(screen, 1, 0, 5))
}

func TestPrintStopsBeforeWideOverflow(t *testing.T) {
	screen := newTestScreen(t, 5, 1)

	n, width := PrintStyled(screen, "世界", 0, 0, 3, AlignmentLeft, tcell.StyleDefault)
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, width)

	r, _, _, _ := screen.GetContent(0, 0)
	assert.Equal(t, '世', r)
}

func TestTaggedStringWidth(t *testing.T) {
	assert.Equal(t, 0, TaggedStringWidth(""))
	assert.Equal(t, 5, TaggedStringWidth("世界a"))
	assert.Equal(t, 6, TaggedStringWidth("Item 0"))
}
