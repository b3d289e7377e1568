package graphics

// Stage identifies a shader pipeline stage.
type Stage uint32

const (
	VertexStage Stage = iota
	FragmentStage
)

func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	}
	return "unknown"
}

// BufferTarget selects the binding point a buffer object is attached to.
type BufferTarget uint32

const (
	ArrayBuffer BufferTarget = iota
	ElementArrayBuffer
)

// Primitive is the topology used to interpret a draw call.
type Primitive uint32

const (
	Triangles Primitive = iota
)

func (p Primitive) String() string {
	if p == Triangles {
		return "triangles"
	}
	return "unknown"
}

// ClearMask selects the framebuffer planes cleared by Device.Clear.
type ClearMask uint32

const (
	ColorBufferBit ClearMask = 1 << iota
	DepthBufferBit
)

// PositionLocation is the vertex-input slot that carries xyz positions.
const PositionLocation uint32 = 0

// Device is the subset of the GPU driver used by the harness. Every method
// must be called on the thread that owns the current context.
type Device interface {
	CreateShader(stage Stage) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	ShaderCompiled(shader uint32) bool
	ShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	BindAttribLocation(program, index uint32, name string)
	LinkProgram(program uint32)
	ProgramLinked(program uint32) bool
	ProgramInfoLog(program uint32) string
	AttribLocation(program uint32, name string) int32
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	GenVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)
	GenBuffer() uint32
	BindBuffer(target BufferTarget, buffer uint32)
	BufferFloats(target BufferTarget, data []float32)
	BufferIndices(target BufferTarget, data []uint32)
	DeleteBuffer(buffer uint32)
	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size, stride int32, offset int)

	ClearColor(r, g, b, a float32)
	Clear(mask ClearMask)
	Viewport(x, y, width, height int32)
	DrawElements(mode Primitive, count int32)
	DrawArrays(mode Primitive, first, count int32)

	// ReadPixels returns width*height RGBA bytes, bottom row first.
	ReadPixels(x, y, width, height int32) []byte
}
