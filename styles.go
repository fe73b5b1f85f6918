package tpick

import (
	"github.com/gdamore/tcell/v2"
)

// Theme defines the colors used when primitives are initialized.
type Theme struct {
	PrimitiveBackgroundColor tcell.Color // Main background color for primitives.
	BorderColor              tcell.Color // Box borders.
	TitleColor               tcell.Color // Box titles.
	GraphicsColor            tcell.Color // Graphics such as scroll bars.
	PrimaryTextColor         tcell.Color // Primary text.
	SecondaryTextColor       tcell.Color // Secondary text (e.g. labels).
	SelectedTextColor        tcell.Color // The row under the selection band.
	SelectedBackgroundColor  tcell.Color // The selection band.
	DisabledTextColor        tcell.Color // Rows that cannot be selected.
}

// Styles defines the theme for applications. The default is for a black
// background with white text and a blue selection band.
var Styles = Theme{
	PrimitiveBackgroundColor: tcell.ColorBlack,
	BorderColor:              tcell.ColorWhite,
	TitleColor:               tcell.ColorWhite,
	GraphicsColor:            tcell.ColorWhite,
	PrimaryTextColor:         tcell.ColorWhite,
	SecondaryTextColor:       tcell.ColorYellow,
	SelectedTextColor:        tcell.ColorWhite,
	SelectedBackgroundColor:  tcell.ColorNavy,
	DisabledTextColor:        tcell.ColorGray,
}
