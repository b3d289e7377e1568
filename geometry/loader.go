package geometry

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/richinsley/glharness/graphics"
)

// Loader creates Buffers against a context and remembers them so CleanUp
// can release whatever the caller did not.
type Loader struct {
	ctx     *graphics.Context
	buffers []*Buffer
}

// NewLoader returns a loader bound to ctx.
func NewLoader(ctx *graphics.Context) *Loader {
	return &Loader{ctx: ctx}
}

// Upload creates a vertex array holding vertices (xyz per vertex) as
// attribute 0 and, when indices is non-empty, an index buffer.
func (l *Loader) Upload(vertices []float32, indices []uint32) (*Buffer, error) {
	if err := l.ctx.Err(); err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	if err := Validate(vertices, indices); err != nil {
		return nil, err
	}
	dev := l.ctx.Device()

	b := &Buffer{
		ctx:      l.ctx,
		vertices: len(vertices) / componentsPerVertex,
		indices:  len(indices),
	}
	b.vao = dev.GenVertexArray()
	l.ctx.Retain(graphics.KindVertexArray, b.vao)
	l.ctx.BindVertexArray(b.vao)

	vbo := dev.GenBuffer()
	l.ctx.Retain(graphics.KindBuffer, vbo)
	b.buffers = append(b.buffers, vbo)
	dev.BindBuffer(graphics.ArrayBuffer, vbo)
	dev.BufferFloats(graphics.ArrayBuffer, vertices)
	dev.VertexAttribPointer(graphics.PositionLocation, componentsPerVertex, componentsPerVertex*4, 0)
	dev.EnableVertexAttribArray(graphics.PositionLocation)
	dev.BindBuffer(graphics.ArrayBuffer, 0)

	if len(indices) > 0 {
		// the element binding is vertex-array state, so it stays bound
		ibo := dev.GenBuffer()
		l.ctx.Retain(graphics.KindBuffer, ibo)
		b.buffers = append(b.buffers, ibo)
		dev.BindBuffer(graphics.ElementArrayBuffer, ibo)
		dev.BufferIndices(graphics.ElementArrayBuffer, indices)
	}

	l.ctx.BindVertexArray(0)
	l.buffers = append(l.buffers, b)
	graphics.Logger().Debug("geometry uploaded",
		"vao", b.vao, "vertices", b.vertices, "indices", b.indices)
	return b, nil
}

// UploadPositions is Upload for a slice of vectors.
func (l *Loader) UploadPositions(positions []mgl32.Vec3, indices []uint32) (*Buffer, error) {
	return l.Upload(Flatten(positions), indices)
}

// Live returns the number of buffers created by l and not yet released.
func (l *Loader) Live() int {
	n := 0
	for _, b := range l.buffers {
		if !b.released {
			n++
		}
	}
	return n
}

// CleanUp releases every buffer this loader created that is still live.
func (l *Loader) CleanUp() error {
	var errs []error
	kept := l.buffers[:0]
	for _, b := range l.buffers {
		if b.released {
			continue
		}
		if err := b.Release(); err != nil {
			errs = append(errs, err)
			kept = append(kept, b)
		}
	}
	l.buffers = kept
	return errors.Join(errs...)
}
