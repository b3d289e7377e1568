package renderer

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/richinsley/glharness/geometry"
	"github.com/richinsley/glharness/graphics"
	"github.com/richinsley/glharness/shader"
)

// Mesh is the vertex data a scene uploads.
type Mesh struct {
	Positions []mgl32.Vec3
	Indices   []uint32
}

// UnitSquare is a square of side 1 centered on the origin, as two
// counter-clockwise triangles.
var UnitSquare = Mesh{
	Positions: []mgl32.Vec3{
		{-0.5, 0.5, 0},
		{-0.5, -0.5, 0},
		{0.5, -0.5, 0},
		{0.5, 0.5, 0},
	},
	Indices: []uint32{
		0, 1, 3,
		3, 1, 2,
	},
}

// Scene owns the program, the loader and the model drawn each frame.
type Scene struct {
	Title   string
	Program *shader.Program
	Loader  *geometry.Loader
	Model   *geometry.Buffer
}

// LoadScene uploads mesh and builds the static-layout program from src. On
// failure everything created so far is released.
func LoadScene(ctx *graphics.Context, title string, src shader.Source, mesh Mesh) (*Scene, error) {
	scene := &Scene{
		Title:  title,
		Loader: geometry.NewLoader(ctx),
	}

	var err error
	scene.Model, err = scene.Loader.UploadPositions(mesh.Positions, mesh.Indices)
	if err != nil {
		scene.Destroy()
		return nil, fmt.Errorf("failed to upload model: %w", err)
	}

	scene.Program, err = shader.NewStaticFrom(ctx, src)
	if err != nil {
		scene.Destroy()
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	graphics.Logger().Info("scene loaded", "title", title,
		"vertices", scene.Model.VertexCount(), "indices", scene.Model.IndexCount())
	return scene, nil
}

// Destroy deletes the program, then every buffer the loader created.
func (s *Scene) Destroy() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.Program != nil {
		errs = append(errs, s.Program.CleanUp())
	}
	if s.Loader != nil {
		errs = append(errs, s.Loader.CleanUp())
	}
	graphics.Logger().Info("scene destroyed", "title", s.Title)
	return errors.Join(errs...)
}
