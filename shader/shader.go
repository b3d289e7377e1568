package shader

// ────────────────────────────────── Desktop GL ──────────────────────────────────

const staticVertexSourceGL = `#version 410 core
in vec3 position;
void main() {
    gl_Position = vec4(position, 1.0);
}
`

const staticFragmentSourceGL = `#version 410 core
out vec4 out_Color;
void main() {
    out_Color = vec4(0.0, 1.0, 0.0, 1.0);
}
`

// ──────────────────────────────────── GLES ──────────────────────────────────────

const staticVertexSourceGLES = `#version 300 es
in vec3 position;
void main() {
    gl_Position = vec4(position, 1.0);
}
`

const staticFragmentSourceGLES = `#version 300 es
precision mediump float;
out vec4 out_Color;
void main() {
    out_Color = vec4(0.0, 1.0, 0.0, 1.0);
}
`

// ────────────────────────────────── Public API ─────────────────────────────────

// PositionAttribute is the vertex input the static shader reads positions from.
const PositionAttribute = "position"

// StaticColor is the constant RGBA written by the static fragment stage.
var StaticColor = [4]uint8{0, 255, 0, 255}

// StaticSource returns the built-in shader pair. The GLES variant must go
// through Translate before it can be compiled on a desktop context.
func StaticSource(isGLES bool) Source {
	if isGLES {
		return Source{Vertex: staticVertexSourceGLES, Fragment: staticFragmentSourceGLES}
	}
	return Source{Vertex: staticVertexSourceGL, Fragment: staticFragmentSourceGL}
}
