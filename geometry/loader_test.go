package geometry_test

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glharness/geometry"
	"github.com/richinsley/glharness/graphics"
	"github.com/richinsley/glharness/internal/gltest"
)

var (
	squareVertices = []float32{
		-0.5, 0.5, 0,
		-0.5, -0.5, 0,
		0.5, -0.5, 0,
		0.5, 0.5, 0,
	}
	squareIndices = []uint32{0, 1, 3, 3, 1, 2}
)

func setup() (*graphics.Context, *gltest.Device, *geometry.Loader) {
	dev := gltest.NewDevice()
	ctx := graphics.NewContext(gltest.NewWindow(300, 300), dev)
	return ctx, dev, geometry.NewLoader(ctx)
}

func TestUploadSquare(t *testing.T) {
	ctx, dev, loader := setup()

	buf, err := loader.Upload(squareVertices, squareIndices)
	require.NoError(t, err)
	assert.Equal(t, 4, buf.VertexCount())
	assert.Equal(t, 6, buf.IndexCount())
	assert.Equal(t, 6, buf.ElementCount())
	assert.True(t, buf.Indexed())
	assert.NotZero(t, buf.VertexArray())

	// one vertex array and two buffers
	assert.Equal(t, 3, dev.LiveObjects())
	assert.Equal(t, 3, ctx.Live())
	assert.Zero(t, ctx.BoundVertexArray())
	assert.Empty(t, dev.Violations)

	i := dev.Index("VertexAttribPointer", 0)
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, []any{uint32(0), int32(3), int32(12), 0}, dev.Calls[i].Args)
	assert.Equal(t, 1, dev.Count("EnableVertexAttribArray"))
	assert.Equal(t, 1, dev.Count("BufferIndices"))
}

func TestUploadWithoutIndices(t *testing.T) {
	_, dev, loader := setup()

	buf, err := loader.Upload([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, nil)
	require.NoError(t, err)
	assert.False(t, buf.Indexed())
	assert.Equal(t, 3, buf.ElementCount())
	assert.Zero(t, dev.Count("BufferIndices"))
	assert.Equal(t, 2, dev.LiveObjects())
}

func TestUploadRejectsBadLayout(t *testing.T) {
	_, dev, loader := setup()

	_, err := loader.Upload([]float32{0, 0}, nil)
	assert.ErrorIs(t, err, geometry.ErrVertexLayout)
	_, err = loader.Upload(nil, nil)
	assert.ErrorIs(t, err, geometry.ErrVertexLayout)

	_, err = loader.Upload(squareVertices, []uint32{0, 1, 4})
	assert.ErrorIs(t, err, geometry.ErrIndexRange)

	assert.Empty(t, dev.Calls, "nothing is created for invalid input")
}

func TestUploadRandomValidInputs(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, _, loader := setup()

	for n := 0; n < 50; n++ {
		count := 1 + rng.Intn(64)
		vertices := make([]float32, count*3)
		for i := range vertices {
			vertices[i] = rng.Float32()*2 - 1
		}
		indices := make([]uint32, rng.Intn(96))
		for i := range indices {
			indices[i] = uint32(rng.Intn(count))
		}

		buf, err := loader.Upload(vertices, indices)
		require.NoError(t, err)
		assert.Equal(t, count, buf.VertexCount())
		assert.Equal(t, len(indices), buf.IndexCount())
	}
	require.NoError(t, loader.CleanUp())
}

func TestDoubleReleaseKeepsOtherBuffers(t *testing.T) {
	ctx, dev, loader := setup()

	a, err := loader.Upload(squareVertices, squareIndices)
	require.NoError(t, err)
	b, err := loader.Upload(squareVertices, squareIndices)
	require.NoError(t, err)

	require.NoError(t, a.Release())
	require.NoError(t, a.Release())
	assert.True(t, a.Released())
	assert.False(t, b.Released())

	assert.Empty(t, dev.Violations, "no object is deleted twice")
	assert.Equal(t, 3, dev.LiveObjects())
	assert.Equal(t, 3, ctx.Live())
	assert.Equal(t, 1, loader.Live())
}

func TestCleanUpReleasesRemaining(t *testing.T) {
	ctx, dev, loader := setup()

	a, err := loader.Upload(squareVertices, squareIndices)
	require.NoError(t, err)
	_, err = loader.Upload(squareVertices, nil)
	require.NoError(t, err)

	require.NoError(t, a.Release())
	require.NoError(t, loader.CleanUp())
	require.NoError(t, loader.CleanUp())

	assert.Zero(t, loader.Live())
	assert.Zero(t, dev.LiveObjects())
	assert.Zero(t, ctx.Live())
	assert.Empty(t, dev.Violations)
	require.NoError(t, ctx.Destroy())
}

func TestReleaseUnbindsBoundVertexArray(t *testing.T) {
	ctx, _, loader := setup()
	buf, err := loader.Upload(squareVertices, squareIndices)
	require.NoError(t, err)

	ctx.BindVertexArray(buf.VertexArray())
	require.NoError(t, buf.Release())
	assert.Zero(t, ctx.BoundVertexArray())
}

func TestUploadAfterDestroy(t *testing.T) {
	ctx, _, loader := setup()
	require.NoError(t, ctx.Destroy())

	_, err := loader.Upload(squareVertices, squareIndices)
	assert.ErrorIs(t, err, graphics.ErrContextDestroyed)
}

func TestUploadPositions(t *testing.T) {
	_, _, loader := setup()
	buf, err := loader.UploadPositions([]mgl32.Vec3{
		{-0.5, 0.5, 0}, {-0.5, -0.5, 0}, {0.5, -0.5, 0}, {0.5, 0.5, 0},
	}, squareIndices)
	require.NoError(t, err)
	assert.Equal(t, 4, buf.VertexCount())
	assert.Equal(t, squareVertices, geometry.Flatten([]mgl32.Vec3{
		{-0.5, 0.5, 0}, {-0.5, -0.5, 0}, {0.5, -0.5, 0}, {0.5, 0.5, 0},
	}))
}
