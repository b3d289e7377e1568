package renderer

import (
	"errors"

	"github.com/richinsley/glharness/graphics"
)

// Loop draws a scene once per frame until the context is asked to close.
type Loop struct {
	ctx      *graphics.Context
	renderer *Renderer
	scene    *Scene

	// MaxFrames requests closure after that many frames when positive.
	MaxFrames int
	// AfterDraw runs once the frame is drawn and before it is presented,
	// while the back buffer still holds it.
	AfterDraw func(frame int) error

	frames int
}

// NewLoop returns a loop over scene. The loop takes ownership of scene and ctx.
func NewLoop(ctx *graphics.Context, r *Renderer, scene *Scene) *Loop {
	return &Loop{ctx: ctx, renderer: r, scene: scene}
}

// Frames returns the number of frames presented.
func (l *Loop) Frames() int {
	return l.frames
}

// Frame runs clear, start, draw, stop, present and poll once.
func (l *Loop) Frame() error {
	l.renderer.Prepare()

	bound, err := l.scene.Program.Start()
	if err != nil {
		return err
	}
	err = l.renderer.Render(bound, l.scene.Model)
	bound.Stop()
	if err != nil {
		return err
	}

	if l.AfterDraw != nil {
		if err := l.AfterDraw(l.frames); err != nil {
			return err
		}
	}

	l.ctx.PresentFrame()
	l.ctx.PollEvents()
	l.frames++
	if l.MaxFrames > 0 && l.frames >= l.MaxFrames {
		l.ctx.RequestClose()
	}
	return nil
}

// Run renders frames until ShouldClose, then destroys the scene and the
// context, in that order, on every exit path.
func (l *Loop) Run() (err error) {
	defer func() {
		err = errors.Join(err, l.teardown())
	}()

	graphics.Logger().Info("render loop started", "scene", l.scene.Title)
	for !l.ctx.ShouldClose() {
		if err := l.Frame(); err != nil {
			return err
		}
	}
	graphics.Logger().Info("render loop stopped", "frames", l.frames)
	return nil
}

func (l *Loop) teardown() error {
	sceneErr := l.scene.Destroy()
	return errors.Join(sceneErr, l.ctx.Destroy())
}
