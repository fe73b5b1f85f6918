package main

import (
	"github.com/ayn2op/tpick"
	"github.com/ayn2op/tpick/help"
	"github.com/ayn2op/tpick/keybind"
	"github.com/gdamore/tcell/v2"
)

// layout stacks the picker above an optional help footer. The help key
// expands the footer into the full key list; everything else goes to the
// picker.
type layout struct {
	*tpick.Box
	picker *tpick.Picker
	help   *help.Help
}

func newLayout(picker *tpick.Picker, footer *help.Help) *layout {
	return &layout{Box: tpick.NewBox(), picker: picker, help: footer}
}

func (l *layout) Draw(screen tcell.Screen) {
	l.DrawForSubclass(screen, l)
	x, y, width, height := l.GetInnerRect()
	if l.help != nil && height > 1 {
		rows := min(l.help.Height(width), height-1)
		height -= rows
		l.help.SetRect(x, y+height, width, rows)
		l.help.Draw(screen)
	}
	l.picker.SetRect(x, y, width, height)
	l.picker.Draw(screen)
}

func (l *layout) Focus(delegate func(p tpick.Primitive)) {
	delegate(l.picker)
}

func (l *layout) HasFocus() bool {
	return l.picker.HasFocus()
}

func (l *layout) InputHandler(event *tcell.EventKey) tpick.Command {
	if l.help != nil && keybind.Matches(event, l.picker.KeyMap().Help) {
		l.help.SetShowAll(!l.help.ShowAll())
		return tpick.RedrawCommand{}
	}
	return l.picker.InputHandler(event)
}

func (l *layout) MouseHandler(action tpick.MouseAction, event *tcell.EventMouse) (tpick.Primitive, tpick.Command) {
	return l.picker.MouseHandler(action, event)
}

func (l *layout) PasteHandler(text string) tpick.Command {
	return l.picker.PasteHandler(text)
}
