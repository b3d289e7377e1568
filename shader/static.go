package shader

import "github.com/richinsley/glharness/graphics"

// NewStatic builds the built-in single-color program with "position" bound
// to location 0.
func NewStatic(ctx *graphics.Context) (*Program, error) {
	return NewStaticFrom(ctx, StaticSource(false))
}

// NewStaticFrom builds src with the static attribute layout.
func NewStaticFrom(ctx *graphics.Context, src Source) (*Program, error) {
	return New(ctx, src, bindStaticAttributes)
}

func bindStaticAttributes(p *Program) error {
	return p.BindAttribute(graphics.PositionLocation, PositionAttribute)
}
