package tpick

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

const (
	updatesQueueSize = 100
	eventsQueueSize  = 100
	// Resize events closer together than this are coalesced.
	redrawPause = 50 * time.Millisecond
)

// MouseAction is a logical mouse action derived from raw button state.
type MouseAction int16

const (
	MouseMove MouseAction = iota
	MouseLeftDown
	MouseLeftUp
	MouseScrollUp
	MouseScrollDown
)

// queuedUpdate is a function run on the event loop. done, when set,
// receives one value after f returns.
type queuedUpdate struct {
	f    func()
	done chan struct{}
}

// Application owns the terminal screen and runs the event loop. Key, paste
// and mouse events go to the root primitive; frame callbacks and queued
// updates run on the same goroutine, so primitives never need locking.
//
//	app := tpick.NewApplication()
//	picker := tpick.NewPicker(cfg, items, app.Frames())
//	if err := app.SetRoot(picker).Run(); err != nil {
//	    return err
//	}
type Application struct {
	sync.RWMutex

	// Set by SetScreen or Run, cleared by Stop.
	screen tcell.Screen

	focus Primitive
	root  Primitive

	// Terminal events, fed by the goroutine polling the screen.
	events chan tcell.Event

	// Functions from other goroutines and frame ticks.
	updates chan queuedUpdate

	// Closed when Run returns.
	done     chan struct{}
	doneOnce sync.Once

	frames *FrameDriver
	logger *slog.Logger

	enableMouse bool

	// The primitive that returned itself from MouseHandler and receives
	// mouse events until it lets go.
	mouseCapture Primitive
	lastMouseX   int
	lastMouseY   int
	lastButtons  tcell.ButtonMask

	// A full clear before the next draw.
	forceRedraw bool
}

// NewApplication returns an application with mouse support enabled.
func NewApplication() *Application {
	a := &Application{
		events:      make(chan tcell.Event, eventsQueueSize),
		updates:     make(chan queuedUpdate, updatesQueueSize),
		done:        make(chan struct{}),
		logger:      slog.New(slog.DiscardHandler),
		enableMouse: true,
	}
	a.frames = newFrameDriver(a, defaultFrameInterval)
	return a
}

// SetLogger sets the logger used for event loop diagnostics.
func (a *Application) SetLogger(logger *slog.Logger) *Application {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a.Lock()
	a.logger = logger
	a.Unlock()
	return a
}

// EnableMouse sets whether mouse events are reported. It must be called
// before Run.
func (a *Application) EnableMouse(enable bool) *Application {
	a.Lock()
	a.enableMouse = enable
	a.Unlock()
	return a
}

// Frames returns the frame driver that runs animation callbacks on the event
// loop and redraws after each batch.
func (a *Application) Frames() *FrameDriver {
	return a.frames
}

// SetScreen sets the screen Run uses instead of opening the terminal. It
// has no effect once a screen is set.
func (a *Application) SetScreen(screen tcell.Screen) *Application {
	a.Lock()
	defer a.Unlock()
	if a.screen == nil {
		a.screen = screen
		a.forceRedraw = true
	}
	return a
}

// Run opens the terminal unless a screen was set, and handles events until
// Stop is called. Bracketed paste is always enabled.
func (a *Application) Run() error {
	defer a.doneOnce.Do(func() { close(a.done) })

	a.Lock()
	if a.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			a.Unlock()
			return err
		}
		if err = screen.Init(); err != nil {
			a.Unlock()
			return err
		}
		a.screen = screen
	}
	screen := a.screen
	if a.enableMouse {
		screen.EnableMouse()
	}
	screen.EnablePaste()
	logger := a.logger
	a.Unlock()

	// A panic would leave the terminal in raw mode.
	defer func() {
		if p := recover(); p != nil {
			a.Stop()
			panic(p)
		}
	}()

	a.draw()

	// PollEvent returns nil once the screen is finalized, which ends the loop.
	go func() {
		for {
			event := screen.PollEvent()
			a.events <- event
			if event == nil {
				return
			}
		}
	}()
	logger.Debug("event loop started")

	var (
		appErr      error
		lastResize  time.Time
		resizeTimer *time.Timer
		paste       strings.Builder
		pasting     bool
	)
	for {
		select {
		case event := <-a.events:
			if event == nil {
				a.frames.stop()
				logger.Debug("event loop stopped")
				return appErr
			}

			switch event := event.(type) {
			case *tcell.EventKey:
				if pasting {
					collectPaste(&paste, event)
					continue
				}
				if root := a.getRoot(); root != nil && root.HasFocus() {
					a.handle(root.InputHandler(event))
				}
			case *tcell.EventPaste:
				if event.Start() {
					pasting = true
					paste.Reset()
					continue
				}
				pasting = false
				if root := a.getRoot(); root != nil && root.HasFocus() && paste.Len() > 0 {
					a.handle(root.PasteHandler(paste.String()))
				}
			case *tcell.EventResize:
				a.Lock()
				a.forceRedraw = true
				a.Unlock()
				if time.Since(lastResize) < redrawPause {
					if resizeTimer != nil {
						resizeTimer.Stop()
					}
					resizeTimer = time.AfterFunc(redrawPause, func() {
						a.events <- event
					})
				}
				lastResize = time.Now()
				a.draw()
			case *tcell.EventMouse:
				if a.fireMouseActions(event) {
					a.draw()
				}
			case *tcell.EventError:
				logger.Error("terminal error", slog.Any("err", event))
				appErr = event
				a.Stop()
			}

		case update := <-a.updates:
			update.f()
			if update.done != nil {
				update.done <- struct{}{}
			}
		}
	}
}

// collectPaste appends the text of a key event received inside a bracketed
// paste.
func collectPaste(b *strings.Builder, event *tcell.EventKey) {
	switch event.Key() {
	case tcell.KeyRune:
		b.WriteRune(event.Rune())
	case tcell.KeyEnter:
		b.WriteRune('\n')
	case tcell.KeyTab:
		b.WriteRune('\t')
	}
}

func (a *Application) getRoot() Primitive {
	a.RLock()
	defer a.RUnlock()
	return a.root
}

// handle executes cmd and redraws when it asks for it.
func (a *Application) handle(cmd Command) {
	if a.executeCommand(cmd) {
		a.draw()
	}
}

// fireMouseActions turns a raw mouse event into pointer moves, left button
// transitions and wheel steps, and reports whether any handler asked for a
// redraw.
func (a *Application) fireMouseActions(event *tcell.EventMouse) (handled bool) {
	fire := func(action MouseAction) {
		target := a.mouseCapture
		if target == nil {
			target = a.getRoot()
		}
		if target == nil {
			return
		}
		capture, cmd := target.MouseHandler(action, event)
		if a.executeCommand(cmd) {
			handled = true
		}
		a.mouseCapture = capture
	}

	x, y := event.Position()
	buttons := event.Buttons()
	if x != a.lastMouseX || y != a.lastMouseY {
		fire(MouseMove)
		a.lastMouseX, a.lastMouseY = x, y
	}

	if (buttons^a.lastButtons)&tcell.Button1 != 0 {
		if buttons&tcell.Button1 != 0 {
			fire(MouseLeftDown)
		} else {
			fire(MouseLeftUp)
		}
	}
	a.lastButtons = buttons

	if buttons&tcell.WheelUp != 0 {
		fire(MouseScrollUp)
	}
	if buttons&tcell.WheelDown != 0 {
		fire(MouseScrollDown)
	}
	return handled
}

// Stop finalizes the screen, which makes Run return. It is safe to call from
// any goroutine and more than once.
func (a *Application) Stop() {
	a.frames.stop()
	a.Lock()
	defer a.Unlock()
	if a.screen == nil {
		return
	}
	a.screen.Fini()
	a.screen = nil
}

// draw lays the root out over the whole screen and shows it. It must run on
// the event loop.
func (a *Application) draw() {
	a.Lock()
	screen, root, force := a.screen, a.root, a.forceRedraw
	a.forceRedraw = false
	a.Unlock()
	if screen == nil || root == nil {
		return
	}

	width, height := screen.Size()
	root.SetRect(0, 0, width, height)
	// tcell only sends changed cells on Show; clear on resize and new roots.
	if force {
		screen.Clear()
	}
	root.Draw(screen)
	screen.Show()
}

// SetRoot sets the primitive that fills the screen and focuses it.
func (a *Application) SetRoot(root Primitive) *Application {
	a.Lock()
	a.root = root
	if a.screen != nil {
		a.forceRedraw = true
	}
	a.Unlock()

	a.SetFocus(root)
	return a
}

// SetFocus blurs the focused primitive and focuses p, which may delegate
// focus to a child.
func (a *Application) SetFocus(p Primitive) *Application {
	a.Lock()
	if a.focus != nil {
		a.focus.Blur()
	}
	a.focus = p
	if a.screen != nil {
		a.screen.HideCursor()
	}
	a.Unlock()
	if p != nil {
		p.Focus(func(p Primitive) {
			a.SetFocus(p)
		})
	}
	return a
}

// QueueUpdateDraw runs f on the event loop, redraws, and waits for both. It
// returns false without running f once the application has stopped. It
// must not be called from the event loop itself.
func (a *Application) QueueUpdateDraw(f func()) bool {
	ch := make(chan struct{})
	update := queuedUpdate{
		f: func() {
			f()
			a.draw()
		},
		done: ch,
	}
	select {
	case a.updates <- update:
	case <-a.done:
		return false
	}
	select {
	case <-ch:
		return true
	case <-a.done:
		return false
	}
}

func (a *Application) executeCommand(cmd Command) bool {
	switch c := cmd.(type) {
	case BatchCommand:
		handled := false
		for _, item := range c {
			if a.executeCommand(item) {
				handled = true
			}
		}
		return handled
	case RedrawCommand:
		return true
	case SetFocusCommand:
		if c.Target == nil {
			return false
		}
		a.RLock()
		changed := a.focus != c.Target
		a.RUnlock()
		if changed {
			a.SetFocus(c.Target)
		}
		return changed
	}
	return false
}
