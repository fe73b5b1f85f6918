// Package config loads the tpick configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ayn2op/tpick"
	"github.com/ayn2op/tpick/keybind"
	"github.com/ayn2op/tpick/kinetic"
	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor is returned for colour values that are neither hex
// triplets nor colour names.
var ErrInvalidColor = errors.New("invalid color")

type Config struct {
	Engine      EngineConfig      `toml:"engine"`
	Perspective PerspectiveConfig `toml:"perspective"`
	Picker      PickerConfig      `toml:"picker"`
	Style       StyleConfig       `toml:"style"`
	Keys        KeysConfig        `toml:"keys"`
	Log         LogConfig         `toml:"log"`
}

type EngineConfig struct {
	ItemHeight         float64  `toml:"item_height"`
	VisibleItems       int      `toml:"visible_items"`
	Friction           float64  `toml:"friction"`
	Resistance         float64  `toml:"resistance"`
	Steepness          float64  `toml:"steepness"`
	MaxOverscrollRatio float64  `toml:"max_overscroll_ratio"`
	SnapDuration       Duration `toml:"snap_duration"`
	SnapDurationWheel  Duration `toml:"snap_duration_wheel"`
	Momentum           bool     `toml:"momentum"`
	DragFollow         float64  `toml:"drag_follow"`
	MaxVelocity        float64  `toml:"max_velocity"`
	SpringBack         string   `toml:"spring_back"`
	SpringBackDuration Duration `toml:"spring_back_duration"`
	SpringFrequency    float64  `toml:"spring_frequency"`
	SpringDamping      float64  `toml:"spring_damping"`
}

type PerspectiveConfig struct {
	Enabled         bool    `toml:"enabled"`
	StepDeg         float64 `toml:"step_deg"`
	MaxAngleDeg     float64 `toml:"max_angle_deg"`
	VisibleRangeDeg float64 `toml:"visible_range_deg"`
	MinScale        float64 `toml:"min_scale"`
	MinOpacity      float64 `toml:"min_opacity"`
}

// PickerConfig holds widget options. ScrollBarGlyphs is "unicode",
// "legacy" or "minimal".
type PickerConfig struct {
	Title           string   `toml:"title"`
	TitleAlign      string   `toml:"title_align"`
	Border          string   `toml:"border"`
	ScrollBar       bool     `toml:"scroll_bar"`
	ScrollBarGlyphs string   `toml:"scroll_bar_glyphs"`
	ScrollBarArrows bool     `toml:"scroll_bar_arrows"`
	Bell            bool     `toml:"bell"`
	Mouse           bool     `toml:"mouse"`
	Help            bool     `toml:"help"`
	JumpTimeout     Duration `toml:"jump_timeout"`
}

// StyleConfig holds colours as "#rrggbb" or tcell colour names. Empty
// values keep the built-in theme.
type StyleConfig struct {
	Foreground         string `toml:"foreground"`
	Background         string `toml:"background"`
	SelectedForeground string `toml:"selected_foreground"`
	SelectedBackground string `toml:"selected_background"`
	Disabled           string `toml:"disabled"`
	Marker             string `toml:"marker"`
	Border             string `toml:"border"`
}

// KeysConfig lists key names per action, e.g. ["down", "ctrl+n"].
type KeysConfig struct {
	Prev     []string `toml:"prev"`
	Next     []string `toml:"next"`
	First    []string `toml:"first"`
	Last     []string `toml:"last"`
	PageUp   []string `toml:"page_up"`
	PageDown []string `toml:"page_down"`
	Confirm  []string `toml:"confirm"`
	Cancel   []string `toml:"cancel"`
	Help     []string `toml:"help"`
}

type LogConfig struct {
	Path  string `toml:"path"`
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a string such as "300ms".
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func DefaultConfig() *Config {
	k := kinetic.DefaultConfig()
	keys := tpick.DefaultPickerKeyMap()
	return &Config{
		Engine: EngineConfig{
			ItemHeight:         k.ItemHeight,
			VisibleItems:       k.VisibleItems,
			Friction:           k.Friction,
			Resistance:         k.Resistance,
			Steepness:          k.Steepness,
			MaxOverscrollRatio: k.MaxOverscrollRatio,
			SnapDuration:       Duration{k.SnapDuration},
			SnapDurationWheel:  Duration{k.SnapDurationWheel},
			Momentum:           k.Momentum,
			DragFollow:         k.DragFollow,
			MaxVelocity:        k.MaxVelocity,
			SpringBack:         k.SpringBackMode.String(),
			SpringBackDuration: Duration{k.SpringBackDuration},
			SpringFrequency:    k.SpringFrequency,
			SpringDamping:      k.SpringDamping,
		},
		Perspective: PerspectiveConfig{
			MinScale:   k.Perspective.MinScale,
			MinOpacity: k.Perspective.MinOpacity,
		},
		Picker: PickerConfig{
			TitleAlign:      "center",
			Border:          "round",
			ScrollBar:       true,
			ScrollBarGlyphs: "unicode",
			Mouse:           true,
			Help:            true,
			JumpTimeout:     Duration{tpick.DefaultJumpTimeout},
		},
		Keys: KeysConfig{
			Prev:     keys.Prev.Keys(),
			Next:     keys.Next.Keys(),
			First:    keys.First.Keys(),
			Last:     keys.Last.Keys(),
			PageUp:   keys.PageUp.Keys(),
			PageDown: keys.PageDown.Keys(),
			Confirm:  keys.Confirm.Keys(),
			Cancel:   keys.Cancel.Keys(),
			Help:     keys.Help.Keys(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func ConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "tpick"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the file at path over the defaults. An empty path selects
// [ConfigPath]. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}

// Kinetic converts the engine and perspective sections into an engine
// configuration and validates it.
func (c *Config) Kinetic() (kinetic.Config, error) {
	k := kinetic.DefaultConfig()
	e := c.Engine
	k.ItemHeight = e.ItemHeight
	k.VisibleItems = e.VisibleItems
	k.Friction = e.Friction
	k.Resistance = e.Resistance
	k.Steepness = e.Steepness
	k.MaxOverscrollRatio = e.MaxOverscrollRatio
	k.SnapDuration = e.SnapDuration.Duration
	k.SnapDurationWheel = e.SnapDurationWheel.Duration
	k.Momentum = e.Momentum
	k.DragFollow = e.DragFollow
	k.MaxVelocity = e.MaxVelocity
	k.MaxVelocityNearEdge = 0
	k.SpringBackDuration = e.SpringBackDuration.Duration
	k.SpringFrequency = e.SpringFrequency
	k.SpringDamping = e.SpringDamping

	mode, err := kinetic.ParseSpringBackMode(e.SpringBack)
	if err != nil {
		return kinetic.Config{}, err
	}
	k.SpringBackMode = mode

	p := c.Perspective
	k.Perspective = kinetic.Perspective{
		Enabled:         p.Enabled,
		StepDeg:         p.StepDeg,
		MaxAngleDeg:     p.MaxAngleDeg,
		VisibleRangeDeg: p.VisibleRangeDeg,
		MinScale:        p.MinScale,
		MinOpacity:      p.MinOpacity,
	}

	if err := k.Validate(); err != nil {
		return kinetic.Config{}, fmt.Errorf("engine config: %w", err)
	}
	return k, nil
}

// PickerStyles applies the style section over the default picker styles.
func (c *Config) PickerStyles() (tpick.PickerStyles, error) {
	s := tpick.DefaultPickerStyles()
	st := c.Style

	apply := func(value, field string, set func(tcell.Color)) error {
		if value == "" {
			return nil
		}
		color, err := ParseColor(value)
		if err != nil {
			return fmt.Errorf("style.%s: %w", field, err)
		}
		set(color)
		return nil
	}

	var errs []error
	errs = append(errs,
		apply(st.Foreground, "foreground", func(col tcell.Color) { s.Normal = s.Normal.Foreground(col) }),
		apply(st.Background, "background", func(col tcell.Color) {
			s.Normal = s.Normal.Background(col)
			s.Disabled = s.Disabled.Background(col)
		}),
		apply(st.SelectedForeground, "selected_foreground", func(col tcell.Color) { s.Selected = s.Selected.Foreground(col) }),
		apply(st.SelectedBackground, "selected_background", func(col tcell.Color) {
			s.Selected = s.Selected.Background(col)
			s.Marker = s.Marker.Background(col)
		}),
		apply(st.Disabled, "disabled", func(col tcell.Color) { s.Disabled = s.Disabled.Foreground(col) }),
		apply(st.Marker, "marker", func(col tcell.Color) { s.Marker = s.Marker.Foreground(col) }),
	)
	if err := errors.Join(errs...); err != nil {
		return tpick.PickerStyles{}, err
	}
	return s, nil
}

// BorderColor returns the configured border colour, or the theme's.
func (c *Config) BorderColor() (tcell.Color, error) {
	if c.Style.Border == "" {
		return tpick.Styles.BorderColor, nil
	}
	color, err := ParseColor(c.Style.Border)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("style.border: %w", err)
	}
	return color, nil
}

// TitleAlignment parses picker.title_align: "left", "center" or "right".
func (c *Config) TitleAlignment() (tpick.Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(c.Picker.TitleAlign)) {
	case "", "center", "centre":
		return tpick.AlignmentCenter, nil
	case "left":
		return tpick.AlignmentLeft, nil
	case "right":
		return tpick.AlignmentRight, nil
	}
	return tpick.AlignmentCenter, fmt.Errorf("picker.title_align: unknown alignment %q", c.Picker.TitleAlign)
}

// ScrollBarGlyphs returns the glyph set named by picker.scroll_bar_glyphs.
func (c *Config) ScrollBarGlyphs() (tpick.GlyphSet, error) {
	g, err := tpick.ParseGlyphSet(c.Picker.ScrollBarGlyphs)
	if err != nil {
		return tpick.GlyphSet{}, fmt.Errorf("picker.scroll_bar_glyphs: %w", err)
	}
	return g, nil
}

// KeyMap applies the keys section over the default key map. Empty lists
// keep the default binding.
func (c *Config) KeyMap() tpick.PickerKeyMap {
	km := tpick.DefaultPickerKeyMap()
	for _, b := range []struct {
		keys []string
		kb   *keybind.Keybind
	}{
		{c.Keys.Prev, &km.Prev},
		{c.Keys.Next, &km.Next},
		{c.Keys.First, &km.First},
		{c.Keys.Last, &km.Last},
		{c.Keys.PageUp, &km.PageUp},
		{c.Keys.PageDown, &km.PageDown},
		{c.Keys.Confirm, &km.Confirm},
		{c.Keys.Cancel, &km.Cancel},
		{c.Keys.Help, &km.Help},
	} {
		if len(b.keys) == 0 {
			continue
		}
		before := b.kb.Keys()
		b.kb.SetKeys(b.keys...)
		if keys := b.kb.Keys(); len(keys) > 0 && !slices.Equal(keys, before) {
			b.kb.SetHelp(keys[0], b.kb.Help().Desc)
		}
	}
	return km
}

// ParseColor accepts "#rrggbb", "#rgb" or a colour name known to tcell.
func ParseColor(value string) (tcell.Color, error) {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "#") {
		c, err := colorful.Hex(value)
		if err != nil {
			return tcell.ColorDefault, fmt.Errorf("%w: %q", ErrInvalidColor, value)
		}
		r, g, b := c.RGB255()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b)), nil
	}
	if strings.EqualFold(value, "default") {
		return tcell.ColorDefault, nil
	}
	if color := tcell.GetColor(strings.ToLower(value)); color != tcell.ColorDefault {
		return color, nil
	}
	return tcell.ColorDefault, fmt.Errorf("%w: %q", ErrInvalidColor, value)
}
