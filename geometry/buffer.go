// Package geometry uploads vertex data into GPU vertex arrays.
package geometry

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/richinsley/glharness/graphics"
)

var (
	ErrVertexLayout = errors.New("geometry: vertex data is not a whole number of xyz positions")
	ErrIndexRange   = errors.New("geometry: index out of range")
	ErrReleased     = errors.New("geometry: buffer released")
)

// componentsPerVertex is the xyz layout of the position attribute.
const componentsPerVertex = 3

// Buffer is one vertex array with the buffers bound to it. It is owned by
// exactly one caller and must be released before the context is destroyed.
type Buffer struct {
	ctx      *graphics.Context
	vao      uint32
	buffers  []uint32
	vertices int
	indices  int
	released bool
}

// VertexArray returns the vertex array handle.
func (b *Buffer) VertexArray() uint32 { return b.vao }

// VertexCount returns the number of xyz positions uploaded.
func (b *Buffer) VertexCount() int { return b.vertices }

// IndexCount returns the number of indices uploaded, 0 when not indexed.
func (b *Buffer) IndexCount() int { return b.indices }

// Indexed reports whether the buffer carries an index buffer.
func (b *Buffer) Indexed() bool { return b.indices > 0 }

// ElementCount is the number of elements a draw call covers: the index count
// for indexed geometry, otherwise the vertex count.
func (b *Buffer) ElementCount() int {
	if b.Indexed() {
		return b.indices
	}
	return b.vertices
}

// Released reports whether Release has run.
func (b *Buffer) Released() bool { return b.released }

// Release deletes the buffers and the vertex array. Releasing twice is a
// no-op.
func (b *Buffer) Release() error {
	if b.released {
		graphics.Logger().Warn("geometry buffer released twice", "vao", b.vao)
		return nil
	}
	if err := b.ctx.Err(); err != nil {
		return fmt.Errorf("release vertex array %d: %w", b.vao, err)
	}
	dev := b.ctx.Device()
	if b.ctx.BoundVertexArray() == b.vao {
		b.ctx.BindVertexArray(0)
	}
	for _, buf := range b.buffers {
		dev.DeleteBuffer(buf)
		b.ctx.Drop(graphics.KindBuffer, buf)
	}
	dev.DeleteVertexArray(b.vao)
	b.ctx.Drop(graphics.KindVertexArray, b.vao)
	b.released = true
	return nil
}

// Validate checks that vertices is a whole number of xyz positions and that
// every index refers to one of them.
func Validate(vertices []float32, indices []uint32) error {
	if len(vertices) == 0 || len(vertices)%componentsPerVertex != 0 {
		return fmt.Errorf("%w: %d floats", ErrVertexLayout, len(vertices))
	}
	count := uint32(len(vertices) / componentsPerVertex)
	for i, idx := range indices {
		if idx >= count {
			return fmt.Errorf("%w: indices[%d] = %d, vertex count %d", ErrIndexRange, i, idx, count)
		}
	}
	return nil
}

// Flatten converts positions into the flat xyz layout Upload expects.
func Flatten(positions []mgl32.Vec3) []float32 {
	out := make([]float32, 0, len(positions)*componentsPerVertex)
	for _, p := range positions {
		out = append(out, p[0], p[1], p[2])
	}
	return out
}
