package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/richinsley/glharness/geometry"
	"github.com/richinsley/glharness/graphics"
	"github.com/richinsley/glharness/shader"
)

// Renderer clears the framebuffer and draws geometry with a started program.
type Renderer struct {
	ctx        *graphics.Context
	clearColor mgl32.Vec4
	clearMask  graphics.ClearMask
}

// NewRenderer returns a renderer that clears the color buffer to clearColor.
func NewRenderer(ctx *graphics.Context, clearColor mgl32.Vec4) *Renderer {
	return &Renderer{
		ctx:        ctx,
		clearColor: clearColor,
		clearMask:  graphics.ColorBufferBit,
	}
}

// ClearColor returns the color the framebuffer is cleared to.
func (r *Renderer) ClearColor() mgl32.Vec4 {
	return r.clearColor
}

// Prepare updates the viewport when the framebuffer was resized and clears it.
func (r *Renderer) Prepare() {
	r.ctx.SyncViewport()
	dev := r.ctx.Device()
	dev.ClearColor(r.clearColor[0], r.clearColor[1], r.clearColor[2], r.clearColor[3])
	dev.Clear(r.clearMask)
}

// Render binds model's vertex array and draws it as a triangle list using
// the program proven current by bound.
func (r *Renderer) Render(bound *shader.Bound, model *geometry.Buffer) error {
	if err := bound.Err(); err != nil {
		return err
	}
	if model.Released() {
		return fmt.Errorf("render vertex array %d: %w", model.VertexArray(), geometry.ErrReleased)
	}
	dev := r.ctx.Device()
	r.ctx.BindVertexArray(model.VertexArray())
	if model.Indexed() {
		dev.DrawElements(graphics.Triangles, int32(model.IndexCount()))
	} else {
		dev.DrawArrays(graphics.Triangles, 0, int32(model.VertexCount()))
	}
	r.ctx.BindVertexArray(0)
	return nil
}
