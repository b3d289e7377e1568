package glfwcontext

import (
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/richinsley/glharness/graphics"
)

// Window is a GLFW window with an OpenGL 4.1 core context current on the
// thread that created it.
type Window struct {
	window  *glfw.Window
	handler func(graphics.KeyEvent)
}

var _ graphics.Window = (*Window)(nil)

// New initializes GLFW and opens a hidden window, centers it on the primary
// monitor, makes its context current, sets the swap interval and shows it.
// It must be called from the main thread.
func New(cfg graphics.WindowConfig) (*Window, error) {
	cfg = cfg.Normalized()
	if err := InitGraphics(); err != nil {
		graphics.Logger().Error("GLFW init failed", "err", err)
		return nil, graphics.InitFailed(err)
	}

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	// stay hidden until positioned
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		graphics.Logger().Error("window creation failed", "err", err)
		TerminateGraphics()
		return nil, graphics.WindowCreateFailed(err)
	}

	w := &Window{window: win}
	win.SetKeyCallback(w.glfwKeyCallback)
	w.center()

	win.MakeContextCurrent()
	glfw.SwapInterval(cfg.PresentInterval())
	win.Show()

	graphics.Logger().Info("window created",
		"title", cfg.Title, "width", cfg.Width, "height", cfg.Height,
		"swapInterval", cfg.SwapInterval)
	return w, nil
}

func (w *Window) center() {
	monitor := glfw.GetPrimaryMonitor()
	if monitor == nil {
		return
	}
	mode := monitor.GetVideoMode()
	if mode == nil {
		return
	}
	width, height := w.window.GetSize()
	w.window.SetPos((mode.Width-width)/2, (mode.Height-height)/2)
}

func (w *Window) glfwKeyCallback(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if w.handler != nil {
		w.handler(graphics.KeyEvent{Key: graphics.Key(key), Action: graphics.Action(action)})
	}
}

// SetKeyHandler routes key events to fn. nil detaches it.
func (w *Window) SetKeyHandler(fn func(graphics.KeyEvent)) {
	w.handler = fn
}

func (w *Window) ShouldClose() bool {
	return w.window.ShouldClose()
}

func (w *Window) SetShouldClose(v bool) {
	w.window.SetShouldClose(v)
}

func (w *Window) SwapBuffers() {
	w.window.SwapBuffers()
}

// PollEvents processes pending events; key callbacks only fire here.
func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) FramebufferSize() (int, int) {
	return w.window.GetFramebufferSize()
}

// Destroy frees the callbacks, destroys the window and terminates GLFW.
func (w *Window) Destroy() {
	w.window.SetKeyCallback(nil)
	w.handler = nil
	w.window.Destroy()
	TerminateGraphics()
}

// GLFW returns the underlying *glfw.Window.
func (w *Window) GLFW() *glfw.Window {
	return w.window
}

// InitGraphics initializes GLFW. Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	graphics.Logger().Info("GLFW initialized")
	return nil
}

// TerminateGraphics shuts GLFW down. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	graphics.Logger().Info("GLFW terminated")
}
