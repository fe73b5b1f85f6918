package keybind

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := map[string]string{
		"Ctrl+N":     "ctrl+n",
		"control+x":  "ctrl+x",
		"PageUp":     "pgup",
		"pagedown":   "pgdn",
		"Escape":     "esc",
		"return":     "enter",
		"backtab":    "shift+tab",
		"alt+ctrl+K": "alt+ctrl+k",
		"J":          "J",
		"Rune[x]":    "x",
		"  ":         "",
	}
	for in, expected := range tests {
		assert.Equal(t, expected, normalizeKey(in), in)
	}
}

func TestMatches(t *testing.T) {
	next := NewKeybind(WithKeys("down", "ctrl+n", "j"))
	confirm := NewKeybind(WithKeys("enter", "space"))

	assert.True(t, Matches(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), next))
	assert.True(t, Matches(tcell.NewEventKey(tcell.KeyCtrlN, 0, tcell.ModCtrl), next))
	assert.True(t, Matches(tcell.NewEventKey(tcell.KeyRune, 'j', tcell.ModNone), next))
	assert.False(t, Matches(tcell.NewEventKey(tcell.KeyRune, 'k', tcell.ModNone), next))

	assert.True(t, Matches(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), confirm))
	assert.True(t, Matches(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), confirm))
	assert.False(t, Matches(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), confirm))

	assert.True(t, Matches(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), next, NewKeybind(WithKeys("up"))))
	assert.False(t, Matches(nil, next))
}

func TestNamedControlKeys(t *testing.T) {
	assert.Equal(t, "enter", eventKeyString(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))
	assert.Equal(t, "tab", eventKeyString(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone)))
	assert.Equal(t, "alt+x", eventKeyString(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt)))
}

func TestDisabledKeybind(t *testing.T) {
	kb := NewKeybind(WithKeys("q"), WithHelp("q", "quit"), WithDisabled())
	assert.False(t, kb.Enabled())
	assert.False(t, Matches(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), kb))

	kb.SetEnabled(true)
	assert.True(t, kb.Enabled())
	assert.True(t, Matches(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), kb))

	kb.SetKeys()
	assert.False(t, kb.Enabled())
	assert.Equal(t, Help{Key: "q", Desc: "quit"}, kb.Help())
}
