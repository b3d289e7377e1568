//go:build !linux

package headless_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/richinsley/glharness/graphics"
	"github.com/richinsley/glharness/headless"
)

func TestNewUnsupported(t *testing.T) {
	w, err := headless.New(graphics.WindowConfig{})
	assert.Nil(t, w)
	assert.ErrorIs(t, err, graphics.ErrInitFailed)
}
