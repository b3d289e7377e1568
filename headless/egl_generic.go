//go:build !linux

package headless

import (
	"errors"

	"github.com/richinsley/glharness/graphics"
)

// New is unsupported outside linux.
func New(cfg graphics.WindowConfig) (graphics.Window, error) {
	return nil, graphics.InitFailed(errors.New("egl headless rendering is not supported on this platform"))
}
