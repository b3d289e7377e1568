// Package shader compiles and links GPU programs and brackets draw calls
// with Start and Stop.
package shader

import (
	"errors"
	"fmt"

	"github.com/richinsley/glharness/graphics"
)

var (
	ErrLinked    = errors.New("shader: attribute bound after link")
	ErrNotLinked = errors.New("shader: program not linked")
	ErrDestroyed = errors.New("shader: program destroyed")
	ErrNotActive = errors.New("shader: program not active")
)

// State is a program's position in its lifecycle.
type State int

const (
	Uncompiled State = iota
	Compiling
	Linked
	Active
	Inactive
	Destroyed
)

func (s State) String() string {
	switch s {
	case Uncompiled:
		return "uncompiled"
	case Compiling:
		return "compiling"
	case Linked:
		return "linked"
	case Active:
		return "active"
	case Inactive:
		return "inactive"
	case Destroyed:
		return "destroyed"
	}
	return "unknown"
}

// BindFunc declares attribute locations. It runs after both stages are
// attached and before the program is linked.
type BindFunc func(p *Program) error

// Program is a linked vertex+fragment program.
type Program struct {
	ctx        *graphics.Context
	handle     uint32
	source     Source
	attributes map[string]uint32
	linked     bool
	started    bool
	destroyed  bool
	compiling  bool
}

// New compiles src, runs bind, links and deletes the stage objects. Compile
// and link failures are returned as *CompileError and *LinkError; nothing
// created on the way is left behind. When both stages fail to compile the
// two *CompileError values are joined.
func New(ctx *graphics.Context, src Source, bind BindFunc) (*Program, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}
	dev := ctx.Device()
	p := &Program{
		ctx:        ctx,
		source:     src,
		attributes: make(map[string]uint32),
		compiling:  true,
	}

	// both stages are compiled so each one's log is reported
	vs, vsErr := compileStage(dev, graphics.VertexStage, src.Vertex)
	fs, fsErr := compileStage(dev, graphics.FragmentStage, src.Fragment)
	if err := errors.Join(vsErr, fsErr); err != nil {
		if vsErr == nil {
			dev.DeleteShader(vs)
		}
		if fsErr == nil {
			dev.DeleteShader(fs)
		}
		return nil, err
	}

	p.handle = dev.CreateProgram()
	ctx.Retain(graphics.KindProgram, p.handle)
	dev.AttachShader(p.handle, vs)
	dev.AttachShader(p.handle, fs)

	deleteStages := func() {
		dev.DetachShader(p.handle, vs)
		dev.DetachShader(p.handle, fs)
		dev.DeleteShader(vs)
		dev.DeleteShader(fs)
	}
	discard := func() {
		deleteStages()
		dev.DeleteProgram(p.handle)
		ctx.Drop(graphics.KindProgram, p.handle)
		p.destroyed = true
	}

	if bind != nil {
		if err := bind(p); err != nil {
			discard()
			return nil, fmt.Errorf("bind attributes: %w", err)
		}
	}

	dev.LinkProgram(p.handle)
	p.compiling = false
	if !dev.ProgramLinked(p.handle) {
		err := &LinkError{Log: dev.ProgramInfoLog(p.handle)}
		graphics.Logger().Warn("program link failed", "log", err.Log)
		discard()
		return nil, err
	}
	deleteStages()
	p.linked = true
	graphics.Logger().Debug("program linked", "program", p.handle, "attributes", len(p.attributes))
	return p, nil
}

// Handle returns the program object id.
func (p *Program) Handle() uint32 { return p.handle }

// State reports the lifecycle state. Active and Inactive are derived from
// the program bound on the context.
func (p *Program) State() State {
	switch {
	case p.destroyed:
		return Destroyed
	case p.compiling:
		return Compiling
	case !p.linked:
		return Uncompiled
	case p.ctx.BoundProgram() == p.handle:
		return Active
	case p.started:
		return Inactive
	}
	return Linked
}

// BindAttribute binds the named vertex input to location. It only has an
// effect before linking, so afterwards it returns ErrLinked.
func (p *Program) BindAttribute(location uint32, name string) error {
	switch {
	case p.destroyed:
		return ErrDestroyed
	case p.linked:
		return fmt.Errorf("%w: %q", ErrLinked, name)
	}
	p.ctx.Device().BindAttribLocation(p.handle, location, p.source.name(name))
	p.attributes[name] = location
	return nil
}

// Attributes returns the declared attribute bindings.
func (p *Program) Attributes() map[string]uint32 {
	out := make(map[string]uint32, len(p.attributes))
	for k, v := range p.attributes {
		out[k] = v
	}
	return out
}

// AttributeLocation asks the driver which location the linked program reads
// the named attribute from; -1 if it has none.
func (p *Program) AttributeLocation(name string) (int32, error) {
	switch {
	case p.destroyed:
		return -1, ErrDestroyed
	case !p.linked:
		return -1, ErrNotLinked
	}
	return p.ctx.Device().AttribLocation(p.handle, p.source.name(name)), nil
}

// Start makes the program current and returns the token draw calls require.
// Starting an active program does not rebind it.
func (p *Program) Start() (*Bound, error) {
	switch {
	case p.destroyed:
		return nil, ErrDestroyed
	case !p.linked:
		return nil, ErrNotLinked
	}
	if err := p.ctx.Err(); err != nil {
		return nil, err
	}
	if p.ctx.BoundProgram() != p.handle {
		p.ctx.UseProgram(p.handle)
	}
	p.started = true
	return &Bound{p: p}, nil
}

// Stop binds no program if this one is current.
func (p *Program) Stop() {
	if p.destroyed || p.ctx.Err() != nil {
		return
	}
	if p.ctx.BoundProgram() == p.handle {
		p.ctx.UseProgram(0)
	}
}

// CleanUp deletes the program object. Calling it again is a no-op.
func (p *Program) CleanUp() error {
	if p.destroyed {
		return nil
	}
	if err := p.ctx.Err(); err != nil {
		return fmt.Errorf("delete program %d: %w", p.handle, err)
	}
	p.Stop()
	p.ctx.Device().DeleteProgram(p.handle)
	p.ctx.Drop(graphics.KindProgram, p.handle)
	p.destroyed = true
	return nil
}

// Bound is proof that a program was started. It stays valid until the
// program is stopped, another program is started, or the program is
// destroyed.
type Bound struct {
	p *Program
}

// Program returns the started program.
func (b *Bound) Program() *Program { return b.p }

// Err returns ErrNotActive once the program is no longer current.
func (b *Bound) Err() error {
	if b == nil || b.p == nil {
		return ErrNotActive
	}
	if s := b.p.State(); s != Active {
		return fmt.Errorf("%w: program %d is %s", ErrNotActive, b.p.handle, s)
	}
	return nil
}

// Stop stops the program.
func (b *Bound) Stop() { b.p.Stop() }
