package tpick

import (
	"github.com/gdamore/tcell/v2"
	"go.uber.org/atomic"
)

// Box is the base of every primitive in this package: a rectangle with a
// background, optional borders, a title on the top edge and a footer on the
// bottom edge. Embedding types draw their content inside GetInnerRect.
type Box struct {
	x, y, width, height int

	// Cached inner rect. A negative innerX marks it stale.
	innerX, innerY, innerWidth, innerHeight int

	backgroundColor tcell.Color

	borders     Borders
	borderSet   BorderSet
	borderStyle tcell.Style

	title          string
	titleStyle     tcell.Style
	titleAlignment Alignment

	footer          string
	footerStyle     tcell.Style
	footerAlignment Alignment

	hasFocus bool

	// Set by frame callbacks outside the draw pass.
	dirty *atomic.Bool
}

// NewBox returns a Box without a border.
func NewBox() *Box {
	return &Box{
		width:           15,
		height:          10,
		innerX:          -1,
		backgroundColor: Styles.PrimitiveBackgroundColor,

		borderStyle: tcell.StyleDefault.Foreground(Styles.BorderColor).Background(Styles.PrimitiveBackgroundColor),
		borderSet:   BorderSetPlain(),

		titleStyle:      tcell.StyleDefault.Foreground(Styles.TitleColor),
		titleAlignment:  AlignmentCenter,
		footerStyle:     tcell.StyleDefault.Foreground(Styles.TitleColor),
		footerAlignment: AlignmentCenter,
		dirty:           atomic.NewBool(true),
	}
}

// GetRect returns the position of the box: x, y, width and height.
func (b *Box) GetRect() (int, int, int, int) {
	return b.x, b.y, b.width, b.height
}

// GetInnerRect returns the rectangle left for content once the borders, the
// title row and the footer row are taken off. Width and height never go
// below zero.
func (b *Box) GetInnerRect() (int, int, int, int) {
	if b.innerX >= 0 {
		return b.innerX, b.innerY, b.innerWidth, b.innerHeight
	}

	x, y, width, height := b.GetRect()
	if b.title != "" || b.borders.Has(BordersTop) {
		y++
		height--
	}
	if b.footer != "" || b.borders.Has(BordersBottom) {
		height--
	}
	if b.borders.Has(BordersLeft) {
		x++
		width--
	}
	if b.borders.Has(BordersRight) {
		width--
	}
	return x, y, max(width, 0), max(height, 0)
}

// SetRect sets a new position. The root primitive is resized by the
// application on every draw.
func (b *Box) SetRect(x, y, width, height int) {
	if b.x != x || b.y != y || b.width != width || b.height != height {
		b.x, b.y, b.width, b.height = x, y, width, height
		b.invalidate()
	}
}

// invalidate drops the cached inner rect and schedules a redraw.
func (b *Box) invalidate() {
	b.innerX = -1
	b.MarkDirty()
}

// MarkDirty marks this primitive as needing a redraw. It is safe to call
// from any goroutine.
func (b *Box) MarkDirty() {
	b.dirty.Store(true)
}

// MarkClean marks this primitive as drawn.
func (b *Box) MarkClean() {
	b.dirty.Store(false)
}

func (b *Box) InputHandler(event *tcell.EventKey) Command {
	return nil
}

func (b *Box) PasteHandler(text string) Command {
	return nil
}

// MouseHandler focuses the box when it is clicked.
func (b *Box) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	if action == MouseLeftDown && b.InRect(event.Position()) {
		return nil, SetFocusCommand{Target: b}
	}
	return nil, nil
}

// InRect reports whether x, y lies within the box.
func (b *Box) InRect(x, y int) bool {
	return inside(x, y)(b.GetRect())
}

// InInnerRect reports whether x, y lies within the content area.
func (b *Box) InInnerRect(x, y int) bool {
	return inside(x, y)(b.GetInnerRect())
}

// SetBorders sets which borders to draw.
func (b *Box) SetBorders(flag Borders) *Box {
	if b.borders != flag {
		b.borders = flag
		b.invalidate()
	}
	return b
}

// SetBorderSet sets the runes used for the borders.
func (b *Box) SetBorderSet(borderSet BorderSet) *Box {
	if b.borderSet != borderSet {
		b.borderSet = borderSet
		b.MarkDirty()
	}
	return b
}

// SetBorderStyle sets the style of the borders.
func (b *Box) SetBorderStyle(style tcell.Style) *Box {
	if b.borderStyle != style {
		b.borderStyle = style
		b.MarkDirty()
	}
	return b
}

// GetTitle returns the title.
func (b *Box) GetTitle() string {
	return b.title
}

// SetTitle sets the text drawn on the top edge.
func (b *Box) SetTitle(title string) *Box {
	if b.title != title {
		b.title = title
		b.invalidate()
	}
	return b
}

// SetTitleAlignment sets where the title sits on the top edge.
func (b *Box) SetTitleAlignment(alignment Alignment) *Box {
	if b.titleAlignment != alignment {
		b.titleAlignment = alignment
		b.MarkDirty()
	}
	return b
}

// GetFooter returns the footer.
func (b *Box) GetFooter() string {
	return b.footer
}

// SetFooter sets the text drawn on the bottom edge.
func (b *Box) SetFooter(footer string) *Box {
	if b.footer != footer {
		b.footer = footer
		b.invalidate()
	}
	return b
}

// SetFooterAlignment sets where the footer sits on the bottom edge.
func (b *Box) SetFooterAlignment(alignment Alignment) *Box {
	if b.footerAlignment != alignment {
		b.footerAlignment = alignment
		b.MarkDirty()
	}
	return b
}

// Draw draws the background, borders, title and footer.
func (b *Box) Draw(screen tcell.Screen) {
	b.DrawForSubclass(screen, b)
}

// DrawForSubclass draws the box frame for an embedding primitive p. Custom
// primitives call it first and then fill the inner rect.
func (b *Box) DrawForSubclass(screen tcell.Screen, p Primitive) {
	if b.width <= 0 || b.height <= 0 {
		return
	}

	background := tcell.StyleDefault.Background(b.backgroundColor)
	for y := b.y; y < b.y+b.height; y++ {
		for x := b.x; x < b.x+b.width; x++ {
			put(screen, x, y, " ", background)
		}
	}

	if b.borders != BordersNone && b.width >= 2 && b.height >= 2 {
		b.drawBorders(screen)
	}

	top, bottom := b.y, b.y+b.height-1
	b.drawEdgeText(screen, b.title, top, b.titleAlignment, b.titleStyle)
	b.drawEdgeText(screen, b.footer, bottom, b.footerAlignment, b.footerStyle)

	b.innerX = -1
	b.innerX, b.innerY, b.innerWidth, b.innerHeight = b.GetInnerRect()
}

func (b *Box) drawBorders(screen tcell.Screen) {
	right, bottom := b.x+b.width-1, b.y+b.height-1
	set, style := b.borderSet, b.borderStyle

	for x := b.x + 1; x < right; x++ {
		if b.borders.Has(BordersTop) {
			put(screen, x, b.y, set.Top, style)
		}
		if b.borders.Has(BordersBottom) {
			put(screen, x, bottom, set.Bottom, style)
		}
	}
	for y := b.y + 1; y < bottom; y++ {
		if b.borders.Has(BordersLeft) {
			put(screen, b.x, y, set.Left, style)
		}
		if b.borders.Has(BordersRight) {
			put(screen, right, y, set.Right, style)
		}
	}

	corners := []struct {
		edges Borders
		x, y  int
		glyph string
	}{
		{BordersTop | BordersLeft, b.x, b.y, set.TopLeft},
		{BordersTop | BordersRight, right, b.y, set.TopRight},
		{BordersBottom | BordersLeft, b.x, bottom, set.BottomLeft},
		{BordersBottom | BordersRight, right, bottom, set.BottomRight},
	}
	for _, c := range corners {
		if b.borders.Has(c.edges) {
			put(screen, c.x, c.y, c.glyph, style)
		}
	}
}

// drawEdgeText prints text on row y between the corners and marks a cut
// with an ellipsis.
func (b *Box) drawEdgeText(screen tcell.Screen, text string, y int, alignment Alignment, style tcell.Style) {
	if text == "" || b.width < 4 {
		return
	}
	start, end, _ := printWithStyle(screen, text, b.x+1, y, 0, b.width-2, alignment, style, true)
	printed := end - start
	if printed <= 0 || printed >= len(text) {
		return
	}
	xEllipsis := b.x + b.width - 2
	if alignment == AlignmentRight {
		xEllipsis = b.x + 1
	}
	_, _, cell, _ := screen.GetContent(xEllipsis, y)
	fg, _, _ := cell.Decompose()
	Print(screen, SemigraphicsHorizontalEllipsis, xEllipsis, y, 1, AlignmentLeft, fg)
}

// Focus is called when this primitive receives focus.
func (b *Box) Focus(delegate func(p Primitive)) {
	if !b.hasFocus {
		b.hasFocus = true
		b.MarkDirty()
	}
}

// Blur is called when this primitive loses focus.
func (b *Box) Blur() {
	if b.hasFocus {
		b.hasFocus = false
		b.MarkDirty()
	}
}

// HasFocus reports whether this primitive has focus.
func (b *Box) HasFocus() bool {
	return b.hasFocus
}

func inside(px, py int) func(x, y, width, height int) bool {
	return func(x, y, width, height int) bool {
		return px >= x && px < x+width && py >= y && py < y+height
	}
}
