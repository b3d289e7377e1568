package capture

import (
	"errors"
	"fmt"
	"image"
	"io"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/richinsley/glharness/graphics"
)

var ErrFrameSize = errors.New("capture: frame size does not match recording")

// Recorder pipes raw RGBA frames into an ffmpeg process that encodes them to
// a video file.
type Recorder struct {
	width, height int
	pw            *io.PipeWriter
	errc          chan error
	frames        int
	skipped       int
	closed        bool
}

// NewRecorder starts ffmpeg writing width×height frames at fps to path. An
// empty ffmpegPath uses ffmpeg from PATH.
func NewRecorder(path string, width, height, fps int, ffmpegPath string) (*Recorder, error) {
	if width <= 0 || height <= 0 || fps <= 0 {
		return nil, fmt.Errorf("invalid recording geometry %dx%d@%d", width, height, fps)
	}
	pr, pw := io.Pipe()

	inputArgs := ffmpeg.KwArgs{
		"format":    "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", width, height),
		"framerate": fps,
	}
	outputArgs := ffmpeg.KwArgs{
		"pix_fmt": "yuv420p",
		// frames arrive bottom-up
		"vf": "vflip",
	}
	cmd := ffmpeg.Input("pipe:", inputArgs).
		Output(path, outputArgs).
		OverWriteOutput().WithInput(pr).ErrorToStdOut()
	if ffmpegPath != "" {
		cmd = cmd.SetFfmpegPath(ffmpegPath)
	}

	r := &Recorder{width: width, height: height, pw: pw, errc: make(chan error, 1)}
	go func() {
		err := cmd.Run()
		// unblock writers if ffmpeg exits early
		if err != nil {
			pr.CloseWithError(err)
		} else {
			pr.Close()
		}
		r.errc <- err
	}()
	graphics.Logger().Info("recording started", "path", path, "width", width, "height", height, "fps", fps)
	return r, nil
}

// WriteRaw writes one frame of bottom-up RGBA bytes as returned by
// graphics.Device.ReadPixels.
func (r *Recorder) WriteRaw(pix []byte) error {
	if len(pix) != r.width*r.height*4 {
		return fmt.Errorf("%w: %d bytes, want %d", ErrFrameSize, len(pix), r.width*r.height*4)
	}
	if _, err := r.pw.Write(pix); err != nil {
		return fmt.Errorf("write frame %d: %w", r.frames, err)
	}
	r.frames++
	return nil
}

// WriteFrame writes one top-down image.
func (r *Recorder) WriteFrame(img *image.RGBA) error {
	b := img.Bounds()
	if b.Dx() != r.width || b.Dy() != r.height {
		return fmt.Errorf("%w: %dx%d, want %dx%d", ErrFrameSize, b.Dx(), b.Dy(), r.width, r.height)
	}
	stride := r.width * 4
	pix := make([]byte, stride*r.height)
	for y := 0; y < r.height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+stride]
		copy(pix[(r.height-1-y)*stride:], row)
	}
	return r.WriteRaw(pix)
}

// Capture reads the current framebuffer into the recording. A framebuffer
// resized since recording started is skipped, not written.
func (r *Recorder) Capture(ctx *graphics.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("capture frame: %w", err)
	}
	w, h := ctx.FramebufferSize()
	if w != r.width || h != r.height {
		r.skipped++
		graphics.Logger().Warn("frame skipped, framebuffer size differs from recording",
			"width", w, "height", h, "recordWidth", r.width, "recordHeight", r.height)
		return nil
	}
	return r.WriteRaw(ctx.Device().ReadPixels(0, 0, int32(w), int32(h)))
}

// Skipped returns the number of frames Capture dropped.
func (r *Recorder) Skipped() int {
	return r.skipped
}

// Frames returns the number of frames written.
func (r *Recorder) Frames() int {
	return r.frames
}

// Close ends the stream and waits for ffmpeg to finish.
func (r *Recorder) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.pw.Close()
	if err := <-r.errc; err != nil {
		return fmt.Errorf("ffmpeg: %w", err)
	}
	graphics.Logger().Info("recording finished", "frames", r.frames, "skipped", r.skipped)
	return nil
}
