package graphics_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glharness/graphics"
	"github.com/richinsley/glharness/internal/gltest"
)

func newContext() (*graphics.Context, *gltest.Window, *gltest.Device) {
	dev := gltest.NewDevice()
	win := gltest.NewWindow(300, 300)
	win.Device = dev
	return graphics.NewContext(win, dev), win, dev
}

func TestShouldCloseFalseAfterCreate(t *testing.T) {
	ctx, win, _ := newContext()
	assert.False(t, ctx.ShouldClose())
	assert.True(t, win.HasHandler())
}

func TestEscapeReleaseCloses(t *testing.T) {
	ctx, win, _ := newContext()

	win.Queue(graphics.KeyEscape, graphics.Press)
	ctx.PollEvents()
	assert.False(t, ctx.ShouldClose(), "press alone must not close")

	win.Queue(graphics.KeyEscape, graphics.Release)
	assert.False(t, ctx.ShouldClose(), "events are only delivered by PollEvents")
	ctx.PollEvents()
	assert.True(t, ctx.ShouldClose())
}

func TestOtherKeysDoNotClose(t *testing.T) {
	ctx, win, _ := newContext()
	win.Queue(graphics.KeySpace, graphics.Release)
	win.Queue(graphics.KeyEnter, graphics.Press)
	ctx.PollEvents()
	assert.False(t, ctx.ShouldClose())
}

func TestShouldCloseIsMonotonic(t *testing.T) {
	ctx, win, _ := newContext()
	win.SetShouldClose(true)
	require.True(t, ctx.ShouldClose())

	win.SetShouldClose(false)
	for i := 0; i < 3; i++ {
		ctx.PollEvents()
		assert.True(t, ctx.ShouldClose())
	}
}

func TestRequestClose(t *testing.T) {
	ctx, win, _ := newContext()
	ctx.RequestClose()
	assert.True(t, ctx.ShouldClose())
	assert.True(t, win.ShouldClose())
}

func TestSubscribeKeys(t *testing.T) {
	ctx, win, _ := newContext()
	var got []graphics.KeyEvent
	unsubscribe := ctx.SubscribeKeys(func(ev graphics.KeyEvent) {
		got = append(got, ev)
	})

	win.Queue(graphics.KeySpace, graphics.Press)
	ctx.PollEvents()
	require.Len(t, got, 1)
	assert.Equal(t, graphics.KeyEvent{Key: graphics.KeySpace, Action: graphics.Press}, got[0])

	unsubscribe()
	win.Queue(graphics.KeySpace, graphics.Release)
	ctx.PollEvents()
	assert.Len(t, got, 1)
}

func TestDestroyRefusesLiveResources(t *testing.T) {
	ctx, win, _ := newContext()
	ctx.Retain(graphics.KindProgram, 7)
	ctx.Retain(graphics.KindBuffer, 8)

	err := ctx.Destroy()
	require.ErrorIs(t, err, graphics.ErrLiveResources)
	assert.Contains(t, err.Error(), "1 program")
	assert.Contains(t, err.Error(), "1 buffer")
	assert.Zero(t, win.Destroyed)
	assert.NoError(t, ctx.Err())

	assert.True(t, ctx.Drop(graphics.KindProgram, 7))
	assert.True(t, ctx.Drop(graphics.KindBuffer, 8))
	assert.False(t, ctx.Drop(graphics.KindBuffer, 8))

	require.NoError(t, ctx.Destroy())
	assert.Equal(t, 1, win.Destroyed)
	assert.False(t, win.HasHandler())
	assert.ErrorIs(t, ctx.Err(), graphics.ErrContextDestroyed)
	assert.ErrorIs(t, ctx.Destroy(), graphics.ErrContextDestroyed)
	assert.Equal(t, 1, win.Destroyed)
}

func TestDropClearsBoundState(t *testing.T) {
	ctx, _, dev := newContext()
	ctx.Retain(graphics.KindVertexArray, 3)
	ctx.BindVertexArray(3)
	assert.Equal(t, uint32(3), ctx.BoundVertexArray())
	assert.Equal(t, uint32(3), dev.BoundVertexArray())

	ctx.Drop(graphics.KindVertexArray, 3)
	assert.Zero(t, ctx.BoundVertexArray())
}

func TestSyncViewport(t *testing.T) {
	ctx, win, dev := newContext()
	ctx.SyncViewport()
	ctx.SyncViewport()
	assert.Equal(t, 1, dev.Count("Viewport"))

	win.Width, win.Height = 640, 480
	ctx.SyncViewport()
	require.Equal(t, 2, dev.Count("Viewport"))
	last := dev.Calls[len(dev.Calls)-1]
	assert.Equal(t, []any{int32(0), int32(0), int32(640), int32(480)}, last.Args)
}

func TestWindowConfigNormalized(t *testing.T) {
	cfg := graphics.WindowConfig{}.Normalized()
	assert.Equal(t, graphics.DefaultTitle, cfg.Title)
	assert.Equal(t, 300, cfg.Width)
	assert.Equal(t, 300, cfg.Height)
	assert.Equal(t, 1, cfg.SwapInterval)
	assert.Equal(t, 1, cfg.PresentInterval())

	cfg = graphics.WindowConfig{Title: "demo", Width: 800, Height: 600}.Normalized()
	assert.Equal(t, "demo", cfg.Title)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 600, cfg.Height)
}

func TestWindowConfigSwapInterval(t *testing.T) {
	cfg := graphics.WindowConfig{SwapInterval: graphics.NoSwapInterval}.Normalized()
	assert.Equal(t, graphics.NoSwapInterval, cfg.SwapInterval)
	assert.Zero(t, cfg.PresentInterval())

	cfg = graphics.WindowConfig{SwapInterval: 2}.Normalized()
	assert.Equal(t, 2, cfg.PresentInterval())
}

func TestStartupFailuresAreDistinct(t *testing.T) {
	cause := errors.New("X11: the DISPLAY environment variable is missing")

	err := graphics.InitFailed(cause)
	assert.ErrorIs(t, err, graphics.ErrInitFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, graphics.ErrWindowCreate)
	assert.Contains(t, err.Error(), "DISPLAY")

	err = graphics.WindowCreateFailed(cause)
	assert.ErrorIs(t, err, graphics.ErrWindowCreate)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, graphics.ErrInitFailed)
}
