package tpick

import (
	"testing"
	"time"

	"github.com/ayn2op/tpick/kinetic"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nextUpdate receives one queued update from the application, as the event
// loop would, and runs it.
func nextUpdate(t *testing.T, app *Application) {
	t.Helper()
	select {
	case u := <-app.updates:
		u.f()
	case <-time.After(2 * time.Second):
		t.Fatal("no frame was queued")
	}
}

func TestFrameDriverRunsBatchWithSharedTimestamp(t *testing.T) {
	app := NewApplication()
	d := newFrameDriver(app, time.Millisecond)

	var times []time.Duration
	d.RequestFrame(func(now time.Duration) { times = append(times, now) })
	d.RequestFrame(func(now time.Duration) { times = append(times, now) })
	assert.Equal(t, 2, d.Pending())

	nextUpdate(t, app)
	require.Len(t, times, 2)
	assert.Equal(t, times[0], times[1])
	assert.Zero(t, d.Pending())
	assert.Eventually(t, func() bool { return !d.running.Load() }, time.Second, time.Millisecond)
}

func TestFrameDriverCallbackCanRequestAgain(t *testing.T) {
	app := NewApplication()
	d := newFrameDriver(app, time.Millisecond)

	runs := 0
	var step kinetic.FrameFunc
	step = func(time.Duration) {
		runs++
		if runs < 3 {
			d.RequestFrame(step)
		}
	}
	d.RequestFrame(step)

	for range 3 {
		nextUpdate(t, app)
	}
	assert.Equal(t, 3, runs)
	assert.Zero(t, d.Pending())
}

func TestFrameDriverCancel(t *testing.T) {
	app := NewApplication()
	d := newFrameDriver(app, time.Millisecond)

	ran := false
	handle := d.RequestFrame(func(time.Duration) { ran = true })
	handle.Cancel()
	assert.Zero(t, d.Pending())

	nextUpdate(t, app)
	assert.False(t, ran)
}

func TestFrameDriverStopped(t *testing.T) {
	app := NewApplication()
	d := newFrameDriver(app, time.Millisecond)
	d.stop()

	d.RequestFrame(func(time.Duration) { t.Fatal("frame ran after stop") })
	assert.Zero(t, d.Pending())
	assert.False(t, d.running.Load())
}

func TestApplicationRunsPickerUntilConfirmed(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(20, 7)

	app := NewApplication()
	app.SetScreen(screen)

	var (
		picked kinetic.Item
		ok     bool
	)
	picker := NewPicker(kinetic.DefaultConfig(), numberedItems(10), app.Frames()).
		SetDoneFunc(func(item kinetic.Item, confirmed bool) {
			picked, ok = item, confirmed
			app.Stop()
		})
	app.SetRoot(picker)

	errc := make(chan error, 1)
	go func() { errc <- app.Run() }()

	screen.InjectKey(tcell.KeyDown, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyDown, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		app.Stop()
		t.Fatal("application did not stop")
	}
	assert.True(t, ok)
	assert.Equal(t, "2", picked.Value)
}

func TestQueueUpdateDrawCancelsRunningPicker(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(20, 7)

	app := NewApplication()
	app.SetScreen(screen)

	var (
		calls int
		ok    bool
	)
	picker := NewPicker(kinetic.DefaultConfig(), numberedItems(3), app.Frames()).
		SetDoneFunc(func(_ kinetic.Item, confirmed bool) {
			calls++
			ok = confirmed
			app.Stop()
		})
	app.SetRoot(picker)

	errc := make(chan error, 1)
	go func() { errc <- app.Run() }()

	assert.True(t, app.QueueUpdateDraw(picker.Cancel))
	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		app.Stop()
		t.Fatal("application did not stop")
	}
	assert.Equal(t, 1, calls)
	assert.False(t, ok)

	assert.False(t, app.QueueUpdateDraw(picker.Cancel))
	assert.Equal(t, 1, calls)
}
