// Package capture reads rendered frames back from the GPU.
package capture

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/richinsley/glharness/graphics"
)

// ReadFramebuffer reads the current framebuffer into a top-down RGBA image.
// Call it after drawing and before PresentFrame.
func ReadFramebuffer(ctx *graphics.Context) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("read framebuffer: %w", err)
	}
	w, h := ctx.FramebufferSize()
	pix := ctx.Device().ReadPixels(0, 0, int32(w), int32(h))
	if len(pix) != w*h*4 {
		return nil, fmt.Errorf("read framebuffer: got %d bytes for %dx%d", len(pix), w, h)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	stride := w * 4
	// GL rows start at the bottom
	for y := 0; y < h; y++ {
		src := pix[(h-1-y)*stride : (h-y)*stride]
		copy(img.Pix[y*img.Stride:y*img.Stride+stride], src)
	}
	return img, nil
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return f.Close()
}
