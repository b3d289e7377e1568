package capture_test

import (
	"image"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glharness/capture"
	"github.com/richinsley/glharness/graphics"
	"github.com/richinsley/glharness/internal/gltest"
)

func TestNewRecorderRejectsGeometry(t *testing.T) {
	_, err := capture.NewRecorder("out.mp4", 0, 10, 30, "")
	assert.Error(t, err)
	_, err = capture.NewRecorder("out.mp4", 10, 10, 0, "")
	assert.Error(t, err)
}

func TestRecorderMissingBinary(t *testing.T) {
	dir := t.TempDir()
	rec, err := capture.NewRecorder(filepath.Join(dir, "out.mp4"), 4, 4, 30, filepath.Join(dir, "no-ffmpeg"))
	require.NoError(t, err)

	err = rec.WriteFrame(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	assert.ErrorIs(t, err, capture.ErrFrameSize)
	assert.ErrorIs(t, rec.WriteRaw(make([]byte, 3)), capture.ErrFrameSize)
	assert.Zero(t, rec.Frames())

	assert.Error(t, rec.Close())
	assert.NoError(t, rec.Close())
}

func TestRecorderSkipsResizedFrames(t *testing.T) {
	dir := t.TempDir()
	rec, err := capture.NewRecorder(filepath.Join(dir, "out.mp4"), 4, 4, 30, filepath.Join(dir, "no-ffmpeg"))
	require.NoError(t, err)

	dev := gltest.NewDevice()
	win := gltest.NewWindow(4, 4)
	ctx := graphics.NewContext(win, dev)

	// the window grew after recording started
	win.Width, win.Height = 8, 6
	require.NoError(t, rec.Capture(ctx))
	require.NoError(t, rec.Capture(ctx))
	assert.Equal(t, 2, rec.Skipped())
	assert.Zero(t, rec.Frames())
	assert.Zero(t, dev.Count("ReadPixels"))

	assert.Error(t, rec.Close())
}

func TestRecorderCaptureAfterDestroy(t *testing.T) {
	dir := t.TempDir()
	rec, err := capture.NewRecorder(filepath.Join(dir, "out.mp4"), 4, 4, 30, filepath.Join(dir, "no-ffmpeg"))
	require.NoError(t, err)

	ctx := graphics.NewContext(gltest.NewWindow(4, 4), gltest.NewDevice())
	require.NoError(t, ctx.Destroy())
	assert.ErrorIs(t, rec.Capture(ctx), graphics.ErrContextDestroyed)
	assert.Zero(t, rec.Skipped())

	assert.Error(t, rec.Close())
}
