// Command tpick shows a wheel picker over options read from a file or
// standard input and prints the selected value.
//
// Each input line is "value" or "value<TAB>label". Lines starting with the
// disabled prefix are shown but cannot be selected. The exit status is 0
// when a value was selected, 1 when the picker was cancelled and 2 on error.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayn2op/tpick"
	"github.com/ayn2op/tpick/help"
	"github.com/ayn2op/tpick/internal/config"
	"github.com/ayn2op/tpick/internal/logging"
	"github.com/ayn2op/tpick/kinetic"
	"github.com/gdamore/tcell/v2"
)

const (
	exitSelected  = 0
	exitCancelled = 1
	exitError     = 2
)

type options struct {
	configPath     string
	logPath        string
	logLevel       string
	perspective    bool
	bell           bool
	initial        string
	title          string
	disabledPrefix string
	input          string
}

func main() {
	log.SetFlags(0)

	var opts options
	flag.StringVar(&opts.configPath, "config", "", "configuration file (default $XDG_CONFIG_HOME/tpick/config.toml)")
	flag.StringVar(&opts.logPath, "log", "", "write JSON logs to this file")
	flag.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flag.BoolVar(&opts.perspective, "3d", false, "draw the rows on a rotating drum")
	flag.BoolVar(&opts.bell, "bell", false, "ring the terminal bell for every row passed")
	flag.StringVar(&opts.initial, "initial", "", "value selected at start")
	flag.StringVar(&opts.title, "title", "", "title drawn on the border")
	flag.StringVar(&opts.disabledPrefix, "disabled-prefix", "!", "lines starting with this prefix are disabled")
	flag.Usage = func() {
		log.Println("usage: tpick [flags] [file]")
		flag.PrintDefaults()
	}
	flag.Parse()

	switch flag.NArg() {
	case 0:
	case 1:
		opts.input = flag.Arg(0)
	default:
		flag.Usage()
		os.Exit(exitError)
	}

	os.Exit(run(opts, os.Stdin, os.Stdout))
}

func run(opts options, stdin io.Reader, stdout io.Writer) int {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		log.Printf("tpick: %v", err)
		return exitError
	}

	logPath := cfg.Log.Path
	if opts.logPath != "" {
		logPath = opts.logPath
	}
	logging.SetLogPath(logPath)
	level := cfg.Log.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logging.SetRawLogLevel(level)
	logger := logging.GetLogger()
	defer logging.CloseLogger()
	if err := logging.Err(); err != nil {
		log.Printf("tpick: log file: %v", err)
	}

	items, err := readItems(opts, stdin)
	if err != nil {
		log.Printf("tpick: %v", err)
		return exitError
	}

	if opts.perspective {
		cfg.Perspective.Enabled = true
	}
	if opts.bell {
		cfg.Picker.Bell = true
	}
	if opts.title != "" {
		cfg.Picker.Title = opts.title
	}

	app, picker, err := build(cfg, items, logger)
	if err != nil {
		log.Printf("tpick: %v", err)
		return exitError
	}

	var (
		selected kinetic.Item
		ok       bool
	)
	picker.SetDoneFunc(func(item kinetic.Item, picked bool) {
		selected, ok = item, picked
		app.Stop()
	})
	if opts.initial != "" {
		picker.SetValue(opts.initial, false)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()
	go cancelOnDone(ctx, app, picker, logger)

	logger.Info("picker started", slog.Int("items", len(items)))
	if err := app.Run(); err != nil {
		logger.Error("application failed", slog.Any("err", err))
		log.Printf("tpick: %v", err)
		return exitError
	}

	if !ok {
		logger.Info("picker cancelled")
		return exitCancelled
	}
	logger.Info("picker selected", slog.String("value", selected.Value))
	fmt.Fprintln(stdout, selected.Value)
	return exitSelected
}

// cancelOnDone cancels the picker on the event loop once ctx is done. It does
// nothing when the application has already stopped.
func cancelOnDone(ctx context.Context, app *tpick.Application, picker *tpick.Picker, logger *slog.Logger) {
	<-ctx.Done()
	if app.QueueUpdateDraw(picker.Cancel) {
		logger.Info("picker cancelled by signal")
	}
}

func readItems(opts options, stdin io.Reader) ([]kinetic.Item, error) {
	if opts.input == "" {
		return config.ParseOptions(stdin, opts.disabledPrefix)
	}
	f, err := os.Open(opts.input)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return config.ParseOptions(f, opts.disabledPrefix)
}

// build wires the configuration into an application whose root holds the
// picker and, when enabled, a help footer.
func build(cfg *config.Config, items []kinetic.Item, logger *slog.Logger) (*tpick.Application, *tpick.Picker, error) {
	kcfg, err := cfg.Kinetic()
	if err != nil {
		return nil, nil, err
	}
	styles, err := cfg.PickerStyles()
	if err != nil {
		return nil, nil, err
	}
	borderSet, err := tpick.ParseBorderSet(cfg.Picker.Border)
	if err != nil {
		return nil, nil, err
	}
	borderColor, err := cfg.BorderColor()
	if err != nil {
		return nil, nil, err
	}
	titleAlignment, err := cfg.TitleAlignment()
	if err != nil {
		return nil, nil, err
	}
	glyphs, err := cfg.ScrollBarGlyphs()
	if err != nil {
		return nil, nil, err
	}

	app := tpick.NewApplication().
		SetLogger(logger).
		EnableMouse(cfg.Picker.Mouse)

	picker := tpick.NewPicker(kcfg, items, app.Frames()).
		SetLogger(logger).
		SetKeyMap(cfg.KeyMap()).
		SetStyles(styles).
		SetShowScrollBar(cfg.Picker.ScrollBar).
		SetBell(cfg.Picker.Bell).
		SetJumpTimeout(cfg.Picker.JumpTimeout.Duration)
	picker.SetBorders(tpick.BordersAll).
		SetBorderSet(borderSet).
		SetBorderStyle(tcell.StyleDefault.Foreground(borderColor).Background(tpick.Styles.PrimitiveBackgroundColor)).
		SetTitle(cfg.Picker.Title).
		SetTitleAlignment(titleAlignment)
	picker.ScrollBar().
		SetGlyphSet(glyphs).
		SetArrows(cfg.Picker.ScrollBarArrows).
		SetTrackStyle(tcell.StyleDefault.Foreground(borderColor).Dim(true))

	var footer *help.Help
	if cfg.Picker.Help {
		footer = help.New().SetKeyMap(picker.KeyMap())
	} else {
		picker.SetFooterAlignment(tpick.AlignmentRight)
	}

	status := func(index int) {
		text := fmt.Sprintf("%d/%d", index+1, len(items))
		if footer != nil {
			footer.SetStatus(text)
			return
		}
		picker.SetFooter(text)
	}
	if _, index, has := picker.Current(); has {
		status(index)
	}
	picker.SetPickedFunc(func(ev kinetic.PickEvent) {
		status(ev.Index)
	})
	picker.SetChangedFunc(func(ev kinetic.ChangeEvent) {
		logger.Debug("selection changed", slog.Int("index", ev.Index), slog.String("value", ev.Value))
		status(ev.Index)
	})

	app.SetRoot(newLayout(picker, footer))
	return app, picker, nil
}
