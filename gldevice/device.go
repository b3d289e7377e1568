// Package gldevice implements graphics.Device on top of OpenGL 4.1 core.
package gldevice

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/richinsley/glharness/graphics"
)

var (
	glInitOnce sync.Once
	glInitErr  error
)

// Device issues calls against the OpenGL context current on the calling thread.
type Device struct{}

var _ graphics.Device = (*Device)(nil)

// New loads the OpenGL function pointers. A context must already be current.
func New() (*Device, error) {
	glInitOnce.Do(func() {
		glInitErr = gl.Init()
	})
	if glInitErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", glInitErr)
	}
	graphics.Logger().Info("OpenGL initialized",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))
	return &Device{}, nil
}

func stageEnum(s graphics.Stage) uint32 {
	if s == graphics.FragmentStage {
		return gl.FRAGMENT_SHADER
	}
	return gl.VERTEX_SHADER
}

func targetEnum(t graphics.BufferTarget) uint32 {
	if t == graphics.ElementArrayBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func primitiveEnum(graphics.Primitive) uint32 {
	return gl.TRIANGLES
}

func (Device) CreateShader(stage graphics.Stage) uint32 {
	return gl.CreateShader(stageEnum(stage))
}

func (Device) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
}

func (Device) CompileShader(shader uint32) {
	gl.CompileShader(shader)
}

func (Device) ShaderCompiled(shader uint32) bool {
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

func (Device) ShaderInfoLog(shader uint32) string {
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
	return strings.TrimRight(logText, "\x00")
}

func (Device) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (Device) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (Device) AttachShader(program, shader uint32) {
	gl.AttachShader(program, shader)
}

func (Device) DetachShader(program, shader uint32) {
	gl.DetachShader(program, shader)
}

func (Device) BindAttribLocation(program, index uint32, name string) {
	gl.BindAttribLocation(program, index, gl.Str(name+"\x00"))
}

func (Device) LinkProgram(program uint32) {
	gl.LinkProgram(program)
}

func (Device) ProgramLinked(program uint32) bool {
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

func (Device) ProgramInfoLog(program uint32) string {
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (Device) AttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (Device) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (Device) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (Device) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (Device) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

func (Device) DeleteVertexArray(vao uint32) {
	gl.DeleteVertexArrays(1, &vao)
}

func (Device) GenBuffer() uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return buf
}

func (Device) BindBuffer(target graphics.BufferTarget, buffer uint32) {
	gl.BindBuffer(targetEnum(target), buffer)
}

func (Device) BufferFloats(target graphics.BufferTarget, data []float32) {
	if len(data) == 0 {
		gl.BufferData(targetEnum(target), 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(targetEnum(target), len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (Device) BufferIndices(target graphics.BufferTarget, data []uint32) {
	if len(data) == 0 {
		gl.BufferData(targetEnum(target), 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(targetEnum(target), len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (Device) DeleteBuffer(buffer uint32) {
	gl.DeleteBuffers(1, &buffer)
}

func (Device) EnableVertexAttribArray(index uint32) {
	gl.EnableVertexAttribArray(index)
}

func (Device) VertexAttribPointer(index uint32, size, stride int32, offset int) {
	gl.VertexAttribPointer(index, size, gl.FLOAT, false, stride, gl.PtrOffset(offset))
}

func (Device) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (Device) Clear(mask graphics.ClearMask) {
	var bits uint32
	if mask&graphics.ColorBufferBit != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&graphics.DepthBufferBit != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (Device) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (Device) DrawElements(mode graphics.Primitive, count int32) {
	gl.DrawElements(primitiveEnum(mode), count, gl.UNSIGNED_INT, gl.PtrOffset(0))
}

func (Device) DrawArrays(mode graphics.Primitive, first, count int32) {
	gl.DrawArrays(primitiveEnum(mode), first, count)
}

func (Device) ReadPixels(x, y, width, height int32) []byte {
	pix := make([]byte, int(width)*int(height)*4)
	if len(pix) == 0 {
		return pix
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(x, y, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	return pix
}
