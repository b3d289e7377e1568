// Package gltest provides recording fakes of the graphics collaborators.
package gltest

import (
	"fmt"

	"github.com/richinsley/glharness/graphics"
)

// Call is one recorded driver call.
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Name, c.Args)
}

// Draw is a recorded draw call together with the state bound at the time.
type Draw struct {
	Mode        graphics.Primitive
	Count       int32
	Indexed     bool
	Program     uint32
	VertexArray uint32
}

type shaderObject struct {
	stage    graphics.Stage
	source   string
	compiled bool
}

type programObject struct {
	attached map[uint32]bool
	pending  map[string]uint32
	bindings map[string]uint32
	linked   bool
}

// Device is an in-memory graphics.Device that records every call.
type Device struct {
	// CompileErrors makes compilation of the given stage fail with the log.
	CompileErrors map[graphics.Stage]string
	// LinkError makes every link fail with this log when non-empty.
	LinkError string
	// Pixel fills ReadPixels output unless PixelAt is set.
	Pixel [4]byte
	// PixelAt returns the color at x, y with y counted from the bottom row.
	PixelAt func(x, y int) [4]byte

	Calls      []Call
	Draws      []Draw
	Violations []string

	nextID   uint32
	shaders  map[uint32]*shaderObject
	programs map[uint32]*programObject
	vaos     map[uint32]bool
	buffers  map[uint32]bool

	program uint32
	vao     uint32
}

var _ graphics.Device = (*Device)(nil)

// NewDevice returns an empty fake device.
func NewDevice() *Device {
	return &Device{
		shaders:  make(map[uint32]*shaderObject),
		programs: make(map[uint32]*programObject),
		vaos:     make(map[uint32]bool),
		buffers:  make(map[uint32]bool),
	}
}

func (d *Device) record(name string, args ...any) {
	d.Calls = append(d.Calls, Call{Name: name, Args: args})
}

func (d *Device) violate(format string, args ...any) {
	d.Violations = append(d.Violations, fmt.Sprintf(format, args...))
}

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

// Names returns the recorded call names in order.
func (d *Device) Names() []string {
	names := make([]string, len(d.Calls))
	for i, c := range d.Calls {
		names[i] = c.Name
	}
	return names
}

// Count returns how many times the named call was recorded.
func (d *Device) Count(name string) int {
	n := 0
	for _, c := range d.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Index returns the position of the first recorded call with name at or
// after from, or -1.
func (d *Device) Index(name string, from int) int {
	for i := from; i < len(d.Calls); i++ {
		if d.Calls[i].Name == name {
			return i
		}
	}
	return -1
}

// LiveObjects returns the number of shaders, programs, vertex arrays and
// buffers not yet deleted.
func (d *Device) LiveObjects() int {
	return len(d.shaders) + len(d.programs) + len(d.vaos) + len(d.buffers)
}

// LiveShaders returns the number of shader objects not yet deleted.
func (d *Device) LiveShaders() int {
	return len(d.shaders)
}

// BoundProgram returns the program currently in use.
func (d *Device) BoundProgram() uint32 { return d.program }

// BoundVertexArray returns the vertex array currently bound.
func (d *Device) BoundVertexArray() uint32 { return d.vao }

func (d *Device) CreateShader(stage graphics.Stage) uint32 {
	id := d.id()
	d.shaders[id] = &shaderObject{stage: stage}
	d.record("CreateShader", stage, id)
	return id
}

func (d *Device) ShaderSource(shader uint32, source string) {
	d.record("ShaderSource", shader)
	if s, ok := d.shaders[shader]; ok {
		s.source = source
	} else {
		d.violate("ShaderSource on unknown shader %d", shader)
	}
}

func (d *Device) CompileShader(shader uint32) {
	d.record("CompileShader", shader)
	s, ok := d.shaders[shader]
	if !ok {
		d.violate("CompileShader on unknown shader %d", shader)
		return
	}
	_, fail := d.CompileErrors[s.stage]
	s.compiled = !fail && s.source != ""
}

func (d *Device) ShaderCompiled(shader uint32) bool {
	s, ok := d.shaders[shader]
	return ok && s.compiled
}

func (d *Device) ShaderInfoLog(shader uint32) string {
	s, ok := d.shaders[shader]
	if !ok || s.compiled {
		return ""
	}
	if msg, fail := d.CompileErrors[s.stage]; fail {
		return msg
	}
	return "empty source"
}

func (d *Device) DeleteShader(shader uint32) {
	d.record("DeleteShader", shader)
	if _, ok := d.shaders[shader]; !ok {
		d.violate("DeleteShader on unknown shader %d", shader)
		return
	}
	delete(d.shaders, shader)
}

func (d *Device) CreateProgram() uint32 {
	id := d.id()
	d.programs[id] = &programObject{
		attached: make(map[uint32]bool),
		pending:  make(map[string]uint32),
	}
	d.record("CreateProgram", id)
	return id
}

func (d *Device) AttachShader(program, shader uint32) {
	d.record("AttachShader", program, shader)
	p, ok := d.programs[program]
	if !ok {
		d.violate("AttachShader on unknown program %d", program)
		return
	}
	if _, ok := d.shaders[shader]; !ok {
		d.violate("AttachShader of unknown shader %d", shader)
		return
	}
	p.attached[shader] = true
}

func (d *Device) DetachShader(program, shader uint32) {
	d.record("DetachShader", program, shader)
	if p, ok := d.programs[program]; ok {
		delete(p.attached, shader)
	}
}

func (d *Device) BindAttribLocation(program, index uint32, name string) {
	d.record("BindAttribLocation", program, index, name)
	p, ok := d.programs[program]
	if !ok {
		d.violate("BindAttribLocation on unknown program %d", program)
		return
	}
	p.pending[name] = index
}

func (d *Device) LinkProgram(program uint32) {
	d.record("LinkProgram", program)
	p, ok := d.programs[program]
	if !ok {
		d.violate("LinkProgram on unknown program %d", program)
		return
	}
	stages := make(map[graphics.Stage]bool)
	for sh := range p.attached {
		if s, ok := d.shaders[sh]; ok && s.compiled {
			stages[s.stage] = true
		}
	}
	p.linked = d.LinkError == "" && stages[graphics.VertexStage] && stages[graphics.FragmentStage]
	p.bindings = make(map[string]uint32, len(p.pending))
	for k, v := range p.pending {
		p.bindings[k] = v
	}
}

func (d *Device) ProgramLinked(program uint32) bool {
	p, ok := d.programs[program]
	return ok && p.linked
}

func (d *Device) ProgramInfoLog(program uint32) string {
	p, ok := d.programs[program]
	if !ok || p.linked {
		return ""
	}
	if d.LinkError != "" {
		return d.LinkError
	}
	return "missing stage"
}

func (d *Device) AttribLocation(program uint32, name string) int32 {
	p, ok := d.programs[program]
	if !ok || !p.linked {
		return -1
	}
	if loc, ok := p.bindings[name]; ok {
		return int32(loc)
	}
	return -1
}

func (d *Device) UseProgram(program uint32) {
	d.record("UseProgram", program)
	if program != 0 {
		if p, ok := d.programs[program]; !ok || !p.linked {
			d.violate("UseProgram of unusable program %d", program)
		}
	}
	d.program = program
}

func (d *Device) DeleteProgram(program uint32) {
	d.record("DeleteProgram", program)
	if _, ok := d.programs[program]; !ok {
		d.violate("DeleteProgram on unknown program %d", program)
		return
	}
	delete(d.programs, program)
	if d.program == program {
		d.program = 0
	}
}

func (d *Device) GenVertexArray() uint32 {
	id := d.id()
	d.vaos[id] = true
	d.record("GenVertexArray", id)
	return id
}

func (d *Device) BindVertexArray(vao uint32) {
	d.record("BindVertexArray", vao)
	if vao != 0 && !d.vaos[vao] {
		d.violate("BindVertexArray of unknown vertex array %d", vao)
	}
	d.vao = vao
}

func (d *Device) DeleteVertexArray(vao uint32) {
	d.record("DeleteVertexArray", vao)
	if !d.vaos[vao] {
		d.violate("DeleteVertexArray on unknown vertex array %d", vao)
		return
	}
	delete(d.vaos, vao)
	if d.vao == vao {
		d.vao = 0
	}
}

func (d *Device) GenBuffer() uint32 {
	id := d.id()
	d.buffers[id] = true
	d.record("GenBuffer", id)
	return id
}

func (d *Device) BindBuffer(target graphics.BufferTarget, buffer uint32) {
	d.record("BindBuffer", target, buffer)
	if buffer != 0 {
		if !d.buffers[buffer] {
			d.violate("BindBuffer of unknown buffer %d", buffer)
		}
	}
}

func (d *Device) BufferFloats(target graphics.BufferTarget, data []float32) {
	d.record("BufferFloats", target, len(data))
}

func (d *Device) BufferIndices(target graphics.BufferTarget, data []uint32) {
	d.record("BufferIndices", target, len(data))
}

func (d *Device) DeleteBuffer(buffer uint32) {
	d.record("DeleteBuffer", buffer)
	if !d.buffers[buffer] {
		d.violate("DeleteBuffer on unknown buffer %d", buffer)
		return
	}
	delete(d.buffers, buffer)
}

func (d *Device) EnableVertexAttribArray(index uint32) {
	d.record("EnableVertexAttribArray", index)
}

func (d *Device) VertexAttribPointer(index uint32, size, stride int32, offset int) {
	d.record("VertexAttribPointer", index, size, stride, offset)
}

func (d *Device) ClearColor(r, g, b, a float32) {
	d.record("ClearColor", r, g, b, a)
}

func (d *Device) Clear(mask graphics.ClearMask) {
	d.record("Clear", mask)
}

func (d *Device) Viewport(x, y, width, height int32) {
	d.record("Viewport", x, y, width, height)
}

func (d *Device) DrawElements(mode graphics.Primitive, count int32) {
	d.record("DrawElements", mode, count)
	d.draw(Draw{Mode: mode, Count: count, Indexed: true})
}

func (d *Device) DrawArrays(mode graphics.Primitive, first, count int32) {
	d.record("DrawArrays", mode, first, count)
	d.draw(Draw{Mode: mode, Count: count})
}

func (d *Device) draw(dr Draw) {
	dr.Program = d.program
	dr.VertexArray = d.vao
	if d.program == 0 {
		d.violate("draw with no program bound")
	}
	if d.vao == 0 {
		d.violate("draw with no vertex array bound")
	}
	d.Draws = append(d.Draws, dr)
}

func (d *Device) ReadPixels(x, y, width, height int32) []byte {
	d.record("ReadPixels", x, y, width, height)
	pix := make([]byte, int(width)*int(height)*4)
	for row := 0; row < int(height); row++ {
		for col := 0; col < int(width); col++ {
			c := d.Pixel
			if d.PixelAt != nil {
				c = d.PixelAt(int(x)+col, int(y)+row)
			}
			i := (row*int(width) + col) * 4
			copy(pix[i:i+4], c[:])
		}
	}
	return pix
}
