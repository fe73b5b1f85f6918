package tpick

import (
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ayn2op/tpick/keybind"
	"github.com/ayn2op/tpick/kinetic"
	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
)

const (
	// DefaultJumpTimeout is how long typed characters accumulate into one
	// quick-jump prefix.
	DefaultJumpTimeout = time.Second

	// Columns reserved left of the labels for the selection marker.
	markerWidth = 2
)

// PickerKeyMap holds the key bindings of a [Picker]. It satisfies the key
// map interface of the help package.
type PickerKeyMap struct {
	Prev     keybind.Keybind
	Next     keybind.Keybind
	First    keybind.Keybind
	Last     keybind.Keybind
	PageUp   keybind.Keybind
	PageDown keybind.Keybind
	Confirm  keybind.Keybind
	Cancel   keybind.Keybind
	// Help is not handled by the picker. Containers with a help footer
	// toggle the full key list with it.
	Help keybind.Keybind
}

// DefaultPickerKeyMap returns bindings that leave printable characters free
// for quick-jump.
func DefaultPickerKeyMap() PickerKeyMap {
	return PickerKeyMap{
		Prev:     keybind.NewKeybind(keybind.WithKeys("up", "ctrl+p"), keybind.WithHelp("↑", "prev")),
		Next:     keybind.NewKeybind(keybind.WithKeys("down", "ctrl+n"), keybind.WithHelp("↓", "next")),
		First:    keybind.NewKeybind(keybind.WithKeys("home"), keybind.WithHelp("home", "first")),
		Last:     keybind.NewKeybind(keybind.WithKeys("end"), keybind.WithHelp("end", "last")),
		PageUp:   keybind.NewKeybind(keybind.WithKeys("pgup"), keybind.WithHelp("pgup", "page up")),
		PageDown: keybind.NewKeybind(keybind.WithKeys("pgdn"), keybind.WithHelp("pgdn", "page down")),
		Confirm:  keybind.NewKeybind(keybind.WithKeys("enter", "space"), keybind.WithHelp("enter", "select")),
		Cancel:   keybind.NewKeybind(keybind.WithKeys("esc", "ctrl+c"), keybind.WithHelp("esc", "cancel")),
		Help:     keybind.NewKeybind(keybind.WithKeys("?", "shift+?"), keybind.WithHelp("?", "keys")),
	}
}

func (k PickerKeyMap) ShortHelp() []keybind.Keybind {
	return []keybind.Keybind{k.Prev, k.Next, k.Confirm, k.Cancel, k.Help}
}

func (k PickerKeyMap) FullHelp() [][]keybind.Keybind {
	return [][]keybind.Keybind{
		{k.Prev, k.Next, k.PageUp, k.PageDown},
		{k.First, k.Last},
		{k.Confirm, k.Cancel, k.Help},
	}
}

// PickerStyles holds the styles used to draw a [Picker].
type PickerStyles struct {
	Normal   tcell.Style
	Selected tcell.Style
	Disabled tcell.Style
	Marker   tcell.Style
}

// DefaultPickerStyles derives picker styles from [Styles].
func DefaultPickerStyles() PickerStyles {
	base := tcell.StyleDefault.Background(Styles.PrimitiveBackgroundColor)
	return PickerStyles{
		Normal:   base.Foreground(Styles.PrimaryTextColor),
		Selected: tcell.StyleDefault.Foreground(Styles.SelectedTextColor).Background(Styles.SelectedBackgroundColor).Bold(true),
		Disabled: base.Foreground(Styles.DisabledTextColor),
		Marker:   tcell.StyleDefault.Foreground(Styles.SecondaryTextColor).Background(Styles.SelectedBackgroundColor),
	}
}

// Picker is a single-column wheel selector. Each item takes one terminal
// row and the row in the middle of the picker is the selection. Dragging
// with the mouse flings the wheel, which then coasts, snaps onto a row and
// springs back when pulled past either end. Motion is computed by a
// [kinetic.Engine]; frames are run by the scheduler given to [NewPicker],
// normally [Application.Frames].
type Picker struct {
	*Box

	engine     *kinetic.Engine
	scrollBar  *ScrollBar
	keyMap     PickerKeyMap
	styles     PickerStyles
	logger     *slog.Logger
	cellHeight float64
	rows       int

	showScrollBar bool
	bell          bool
	pendingBell   bool

	dragging   bool
	confirming bool

	fold        cases.Caser
	jumpBuffer  string
	jumpAt      time.Time
	jumpTimeout time.Duration
	now         func() time.Time

	changed func(kinetic.ChangeEvent)
	picked  func(kinetic.PickEvent)
	done    func(item kinetic.Item, ok bool)
}

// NewPicker returns a picker over items. One terminal row corresponds to
// cfg.ItemHeight units of engine travel.
func NewPicker(cfg kinetic.Config, items []kinetic.Item, sched kinetic.Scheduler) *Picker {
	cellHeight := cfg.ItemHeight
	if cellHeight <= 0 {
		cellHeight = kinetic.DefaultConfig().ItemHeight
	}
	p := &Picker{
		Box:           NewBox(),
		scrollBar:     NewScrollBar(),
		keyMap:        DefaultPickerKeyMap(),
		styles:        DefaultPickerStyles(),
		logger:        slog.New(slog.DiscardHandler),
		cellHeight:    cellHeight,
		showScrollBar: true,
		fold:          cases.Fold(),
		jumpTimeout:   DefaultJumpTimeout,
		now:           time.Now,
	}
	p.scrollBar.SetThumbStyle(tcell.StyleDefault.Foreground(Styles.GraphicsColor))
	p.engine = kinetic.NewEngine(cfg, items, sched).
		SetChangedFunc(p.onChange).
		SetPickedFunc(p.onPick).
		SetDetentFunc(p.onDetent).
		SetPhaseFunc(p.onPhase)
	return p
}

// Engine returns the engine driving the picker.
func (p *Picker) Engine() *kinetic.Engine {
	return p.engine
}

// SetLogger sets the logger for the picker and its engine.
func (p *Picker) SetLogger(logger *slog.Logger) *Picker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p.logger = logger
	p.engine.SetLogger(logger)
	return p
}

// SetItems replaces the items, keeping the current value when it is still
// present.
func (p *Picker) SetItems(items []kinetic.Item) *Picker {
	p.engine.SetItems(items)
	p.MarkDirty()
	return p
}

// SetValue scrolls to the item with value. Unknown values are ignored.
func (p *Picker) SetValue(value string, animate bool) *Picker {
	p.engine.ScrollToValue(value, kinetic.ScrollOptions{Animate: animate, Trigger: kinetic.TriggerScroll})
	p.MarkDirty()
	return p
}

// Current returns the committed item and its index.
func (p *Picker) Current() (kinetic.Item, int, bool) {
	return p.engine.Current()
}

// SetDisabled makes the picker ignore input and draws it dimmed.
func (p *Picker) SetDisabled(disabled bool) *Picker {
	p.engine.SetDisabled(disabled)
	if disabled {
		p.dragging = false
		p.confirming = false
	}
	p.MarkDirty()
	return p
}

// SetKeyMap sets the key bindings.
func (p *Picker) SetKeyMap(keyMap PickerKeyMap) *Picker {
	p.keyMap = keyMap
	return p
}

// KeyMap returns the key bindings.
func (p *Picker) KeyMap() PickerKeyMap {
	return p.keyMap
}

// SetStyles sets the styles used to draw rows.
func (p *Picker) SetStyles(styles PickerStyles) *Picker {
	p.styles = styles
	p.MarkDirty()
	return p
}

// SetShowScrollBar sets whether a position indicator is drawn in the last
// column.
func (p *Picker) SetShowScrollBar(show bool) *Picker {
	if p.showScrollBar != show {
		p.showScrollBar = show
		p.MarkDirty()
	}
	return p
}

// ScrollBar returns the position indicator for styling.
func (p *Picker) ScrollBar() *ScrollBar {
	return p.scrollBar
}

// SetBell sets whether the terminal bell rings each time the wheel passes a
// row.
func (p *Picker) SetBell(bell bool) *Picker {
	p.bell = bell
	return p
}

// SetJumpTimeout sets how long typed characters accumulate into one
// quick-jump prefix.
func (p *Picker) SetJumpTimeout(timeout time.Duration) *Picker {
	if timeout <= 0 {
		timeout = DefaultJumpTimeout
	}
	p.jumpTimeout = timeout
	return p
}

// SetChangedFunc sets the handler called when the committed value changes.
func (p *Picker) SetChangedFunc(handler func(kinetic.ChangeEvent)) *Picker {
	p.changed = handler
	return p
}

// SetPickedFunc sets the handler called for every pick, including the live
// ones emitted while the wheel moves.
func (p *Picker) SetPickedFunc(handler func(kinetic.PickEvent)) *Picker {
	p.picked = handler
	return p
}

// SetDoneFunc sets the handler called when the user confirms (ok is true)
// or cancels (ok is false). A confirmation is reported once the wheel has
// settled on the selected item.
func (p *Picker) SetDoneFunc(handler func(item kinetic.Item, ok bool)) *Picker {
	p.done = handler
	return p
}

func (p *Picker) onChange(ev kinetic.ChangeEvent) {
	p.MarkDirty()
	if p.changed != nil {
		p.changed(ev)
	}
}

func (p *Picker) onPick(ev kinetic.PickEvent) {
	p.MarkDirty()
	if p.picked != nil {
		p.picked(ev)
	}
	// The settling pick follows the switch to idle.
	if p.confirming && p.engine.Phase() == kinetic.PhaseIdle {
		p.confirming = false
		p.finish(true)
	}
}

func (p *Picker) onDetent(int) {
	p.MarkDirty()
	if p.bell {
		p.pendingBell = true
	}
}

func (p *Picker) onPhase(_, to kinetic.Phase) {
	p.MarkDirty()
	if to == kinetic.PhaseDragging {
		p.confirming = false
	}
}

func (p *Picker) finish(ok bool) {
	item, _, has := p.engine.Current()
	p.logger.Debug("picker done", "ok", ok && has, "value", item.Value)
	if p.done != nil {
		p.done(item, ok && has)
	}
}

// Cancel abandons the selection. The done handler reports the current
// item with ok set to false.
func (p *Picker) Cancel() {
	if p.dragging {
		p.dragging = false
		p.engine.PointerCancel()
	}
	p.confirming = false
	p.finish(false)
}

func (p *Picker) confirm() {
	if p.engine.Len() == 0 {
		p.finish(false)
		return
	}
	if !p.engine.Key(kinetic.KeyConfirm) {
		return
	}
	if p.engine.Phase() == kinetic.PhaseIdle {
		p.finish(true)
		return
	}
	p.confirming = true
}

// syncGeometry keeps the engine viewport in step with the inner height. An
// even height leaves the last row outside the viewport so that one row
// sits exactly in the middle.
func (p *Picker) syncGeometry() {
	_, _, _, height := p.GetInnerRect()
	rows := height
	if rows%2 == 0 {
		rows--
	}
	if rows < 1 || rows == p.rows {
		return
	}
	p.rows = rows
	p.engine.SetGeometry(p.cellHeight, float64(rows)*p.cellHeight)
}

// pointerY converts a screen row into a viewport-local engine coordinate at
// the middle of that row.
func (p *Picker) pointerY(row int) float64 {
	_, y, _, _ := p.GetInnerRect()
	return (float64(row-y) + 0.5) * p.cellHeight
}

// InputHandler maps key bindings to engine commands. Printable characters
// that are not bound jump to the next item starting with the typed prefix.
func (p *Picker) InputHandler(event *tcell.EventKey) Command {
	p.syncGeometry()
	km := p.keyMap
	switch {
	case keybind.Matches(event, km.Cancel):
		p.Cancel()
		return RedrawCommand{}
	case keybind.Matches(event, km.Confirm):
		p.confirm()
		return RedrawCommand{}
	case keybind.Matches(event, km.Prev):
		return p.key(kinetic.KeyPrev)
	case keybind.Matches(event, km.Next):
		return p.key(kinetic.KeyNext)
	case keybind.Matches(event, km.First):
		return p.key(kinetic.KeyFirst)
	case keybind.Matches(event, km.Last):
		return p.key(kinetic.KeyLast)
	case keybind.Matches(event, km.PageUp):
		return p.key(kinetic.KeyPageUp)
	case keybind.Matches(event, km.PageDown):
		return p.key(kinetic.KeyPageDown)
	}

	if event.Key() == tcell.KeyRune && event.Modifiers()&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) == 0 {
		if p.quickJump(string(event.Rune())) {
			return RedrawCommand{}
		}
	}
	return nil
}

func (p *Picker) key(cmd kinetic.KeyCommand) Command {
	if !p.engine.Key(cmd) {
		return nil
	}
	p.MarkDirty()
	return RedrawCommand{}
}

// PasteHandler treats pasted text as a quick-jump prefix.
func (p *Picker) PasteHandler(text string) Command {
	p.jumpBuffer = ""
	if p.quickJump(strings.TrimSpace(text)) {
		return RedrawCommand{}
	}
	return nil
}

// quickJump appends text to the jump prefix and scrolls to the next enabled
// item whose label starts with it, compared case-insensitively. Searches
// start from the item the wheel is heading to. A single-character prefix
// starts after it, and typing that character again cycles through its
// matches instead of extending the prefix, so a prefix beginning with a
// doubled letter ("aa") can only be pasted.
func (p *Picker) quickJump(text string) bool {
	if text == "" || p.engine.Disabled() || p.engine.Len() == 0 {
		return false
	}
	for _, r := range text {
		if !unicode.IsPrint(r) {
			return false
		}
	}

	now := p.now()
	if now.Sub(p.jumpAt) > p.jumpTimeout {
		p.jumpBuffer = ""
	}
	p.jumpAt = now

	// Repeating a single letter cycles through its matches.
	prefix := p.fold.String(text)
	if p.jumpBuffer != prefix || utf8.RuneCountInString(prefix) != 1 {
		p.jumpBuffer += prefix
	}

	items := p.engine.Items()
	from := max(p.engine.Target(), 0)
	if utf8.RuneCountInString(p.jumpBuffer) == 1 {
		from++
	}
	for n := range items {
		i := (from + n) % len(items)
		item := items[i]
		if item.Disabled {
			continue
		}
		if strings.HasPrefix(p.fold.String(item.Text()), p.jumpBuffer) {
			p.engine.ScrollToIndex(i, kinetic.ScrollOptions{Animate: true, Trigger: kinetic.TriggerKeyboard})
			p.MarkDirty()
			return true
		}
	}
	return false
}

// MouseHandler drives the wheel with the left button and the scroll wheel.
// The picker captures the mouse while a drag is in progress.
func (p *Picker) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	x, y := event.Position()
	switch action {
	case MouseLeftDown:
		if !p.InInnerRect(x, y) {
			return nil, nil
		}
		p.syncGeometry()
		cmd := AppendCommand(SetFocusCommand{Target: p}, RedrawCommand{})
		if p.engine.PointerDown(p.pointerY(y)) {
			p.dragging = true
			return p, cmd
		}
		return nil, cmd
	case MouseMove:
		if p.dragging {
			p.engine.PointerMove(p.pointerY(y))
			return p, RedrawCommand{}
		}
	case MouseLeftUp:
		if p.dragging {
			p.dragging = false
			p.engine.PointerUp(p.pointerY(y))
			return nil, RedrawCommand{}
		}
	case MouseScrollUp, MouseScrollDown:
		if !p.InInnerRect(x, y) {
			return nil, nil
		}
		p.syncGeometry()
		delta := 1.0
		if action == MouseScrollUp {
			delta = -1
		}
		p.engine.Wheel(delta, kinetic.WheelLine)
		return nil, RedrawCommand{}
	}
	return nil, nil
}

// Blur settles a drag that loses focus mid-gesture.
func (p *Picker) Blur() {
	if p.dragging {
		p.dragging = false
		p.engine.PointerCancel()
	}
	p.Box.Blur()
}

// Draw draws the rows around the selection band, the marker and the scroll
// bar.
func (p *Picker) Draw(screen tcell.Screen) {
	p.DrawForSubclass(screen, p)
	p.syncGeometry()
	defer p.MarkClean()

	if p.pendingBell {
		p.pendingBell = false
		_ = screen.Beep()
	}

	x, y, width, height := p.GetInnerRect()
	if width <= markerWidth || height <= 0 {
		return
	}

	items := p.engine.Items()
	frame := p.engine.Frame()
	center := (max(p.rows, 1) - 1) / 2
	shift := frame.Offset / p.cellHeight
	if !p.engine.Geometry().Valid() {
		_, current, _ := p.engine.Current()
		shift = float64(center - current)
	}

	textX := x + markerWidth
	textWidth := width - markerWidth
	if p.showScrollBar && len(items) > 1 && textWidth > 1 {
		textWidth--
	}

	disabled := p.engine.Disabled()
	for r := range height {
		if r == center {
			for cx := x; cx < textX+textWidth; cx++ {
				put(screen, cx, y+r, " ", p.styles.Selected)
			}
			put(screen, x, y+r, SemigraphicsSingleRightAngleMark, p.styles.Marker)
		}

		i := int(math.Floor(float64(r) - shift + 0.5))
		if i < 0 || i >= len(items) {
			continue
		}
		item := items[i]

		style := p.styles.Normal
		switch {
		case item.Disabled || disabled:
			style = p.styles.Disabled
		case r == center:
			style = p.styles.Selected
		}
		if r == center {
			_, bg, _ := p.styles.Selected.Decompose()
			style = style.Background(bg)
		}

		indent, w := 0, textWidth
		if frame.Rows != nil {
			proj := frame.Rows[i]
			if !proj.Visible {
				continue
			}
			if r != center {
				style = fade(style, proj.Opacity)
			}
			w = max(int(math.Round(float64(textWidth)*proj.Scale)), 1)
			indent = (textWidth - w) / 2
		}

		label := runewidth.Truncate(item.Text(), w, SemigraphicsHorizontalEllipsis)
		PrintStyled(screen, label, textX+indent, y+r, w, AlignmentLeft, style)
	}

	if p.showScrollBar && len(items) > 1 && textWidth < width-markerWidth {
		visual := math.Min(math.Max(frame.VisualIndex, 0), float64(len(items)-1))
		p.scrollBar.SetRect(x+width-1, y, 1, height)
		p.scrollBar.SetPosition(len(items), visual)
		p.scrollBar.Draw(screen)
	}
}

// fade blends the foreground of style towards its background. Styles whose
// colours have no RGB value are dimmed instead.
func fade(style tcell.Style, opacity float64) tcell.Style {
	if opacity >= 1 {
		return style
	}
	fg, bg, _ := style.Decompose()
	from, ok := toColorful(fg)
	to, ok2 := toColorful(bg)
	if !ok || !ok2 {
		return style.Dim(true)
	}
	r, g, b := from.BlendLab(to, 1-math.Max(opacity, 0)).Clamped().RGB255()
	return style.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
}

func toColorful(c tcell.Color) (colorful.Color, bool) {
	if c == tcell.ColorDefault {
		return colorful.Color{}, false
	}
	r, g, b := c.RGB()
	if r < 0 || g < 0 || b < 0 {
		return colorful.Color{}, false
	}
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, true
}
