package graphics

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInitFailed       = errors.New("graphics: windowing subsystem initialization failed")
	ErrWindowCreate     = errors.New("graphics: window creation failed")
	ErrContextDestroyed = errors.New("graphics: context destroyed")
	ErrLiveResources    = errors.New("graphics: GPU resources still live")
)

// InitFailed reports that the windowing subsystem could not start.
func InitFailed(cause error) error {
	return fmt.Errorf("%w: %w", ErrInitFailed, cause)
}

// WindowCreateFailed reports that no window or drawing surface was created.
func WindowCreateFailed(cause error) error {
	return fmt.Errorf("%w: %w", ErrWindowCreate, cause)
}

// ResourceKind classifies the GPU objects tracked by a Context.
type ResourceKind int

const (
	KindProgram ResourceKind = iota
	KindVertexArray
	KindBuffer
)

func (k ResourceKind) String() string {
	switch k {
	case KindProgram:
		return "program"
	case KindVertexArray:
		return "vertex array"
	case KindBuffer:
		return "buffer"
	}
	return "unknown"
}

type resourceKey struct {
	kind ResourceKind
	id   uint32
}

type keyObserver struct {
	id int
	fn func(KeyEvent)
}

// Context owns a window and the device current on it. It records the bound
// program and vertex array and every live GPU object created against it, so
// teardown can be checked instead of relying on driver state.
//
// A Context is not safe for concurrent use; all calls belong to the thread
// that created the window.
type Context struct {
	win Window
	dev Device

	observers []keyObserver
	nextID    int

	closed    bool
	destroyed bool

	live    map[resourceKey]struct{}
	program uint32
	vao     uint32

	fbWidth, fbHeight int
}

// NewContext wraps a created window and its device. The returned context
// closes on escape release.
func NewContext(win Window, dev Device) *Context {
	c := &Context{
		win:  win,
		dev:  dev,
		live: make(map[resourceKey]struct{}),
	}
	win.SetKeyHandler(c.dispatch)
	c.SubscribeKeys(CloseOnEscape(c))
	return c
}

// Device returns the GPU driver bound to this context.
func (c *Context) Device() Device {
	return c.dev
}

// Err reports ErrContextDestroyed once Destroy has succeeded.
func (c *Context) Err() error {
	if c.destroyed {
		return ErrContextDestroyed
	}
	return nil
}

// SubscribeKeys registers fn for key events delivered by PollEvents and
// returns a function that removes it.
func (c *Context) SubscribeKeys(fn func(KeyEvent)) (unsubscribe func()) {
	c.nextID++
	id := c.nextID
	c.observers = append(c.observers, keyObserver{id: id, fn: fn})
	return func() {
		for i, o := range c.observers {
			if o.id == id {
				c.observers = append(c.observers[:i], c.observers[i+1:]...)
				return
			}
		}
	}
}

func (c *Context) dispatch(ev KeyEvent) {
	// observers may unsubscribe while being notified
	obs := append([]keyObserver(nil), c.observers...)
	for _, o := range obs {
		o.fn(ev)
	}
}

// CloseOnEscape returns an observer that requests closure when escape is
// released.
func CloseOnEscape(c *Context) func(KeyEvent) {
	return func(ev KeyEvent) {
		if ev.Key == KeyEscape && ev.Action == Release {
			c.RequestClose()
		}
	}
}

// ShouldClose reports whether closure was requested. Once true it stays true.
func (c *Context) ShouldClose() bool {
	if !c.closed && !c.destroyed && c.win.ShouldClose() {
		c.closed = true
		Logger().Info("window close requested")
	}
	return c.closed || c.destroyed
}

// RequestClose sets the close flag.
func (c *Context) RequestClose() {
	if c.closed || c.destroyed {
		return
	}
	c.win.SetShouldClose(true)
	c.closed = true
	Logger().Info("window close requested")
}

// PresentFrame swaps the front and back buffers.
func (c *Context) PresentFrame() {
	if c.destroyed {
		return
	}
	c.win.SwapBuffers()
}

// PollEvents delivers pending window events to the key observers.
func (c *Context) PollEvents() {
	if c.destroyed {
		return
	}
	c.win.PollEvents()
}

// FramebufferSize returns the drawable size in pixels.
func (c *Context) FramebufferSize() (int, int) {
	return c.win.FramebufferSize()
}

// SyncViewport resets the viewport when the framebuffer size changed since
// the last call.
func (c *Context) SyncViewport() {
	w, h := c.win.FramebufferSize()
	if w == c.fbWidth && h == c.fbHeight {
		return
	}
	c.fbWidth, c.fbHeight = w, h
	c.dev.Viewport(0, 0, int32(w), int32(h))
	Logger().Debug("viewport resized", "width", w, "height", h)
}

// UseProgram binds program (0 for none) and records it.
func (c *Context) UseProgram(program uint32) {
	c.dev.UseProgram(program)
	c.program = program
}

// BoundProgram returns the program last bound through UseProgram.
func (c *Context) BoundProgram() uint32 {
	return c.program
}

// BindVertexArray binds vao (0 for none) and records it.
func (c *Context) BindVertexArray(vao uint32) {
	c.dev.BindVertexArray(vao)
	c.vao = vao
}

// BoundVertexArray returns the vertex array last bound through BindVertexArray.
func (c *Context) BoundVertexArray() uint32 {
	return c.vao
}

// Retain records a GPU object created against this context.
func (c *Context) Retain(kind ResourceKind, id uint32) {
	c.live[resourceKey{kind, id}] = struct{}{}
	Logger().Debug("gpu object created", "kind", kind.String(), "id", id)
}

// Drop forgets a GPU object after it has been deleted. It reports whether
// the object was live.
func (c *Context) Drop(kind ResourceKind, id uint32) bool {
	k := resourceKey{kind, id}
	if _, ok := c.live[k]; !ok {
		return false
	}
	delete(c.live, k)
	switch {
	case kind == KindProgram && c.program == id:
		c.program = 0
	case kind == KindVertexArray && c.vao == id:
		c.vao = 0
	}
	Logger().Debug("gpu object deleted", "kind", kind.String(), "id", id)
	return true
}

// Live returns the number of GPU objects not yet deleted.
func (c *Context) Live() int {
	return len(c.live)
}

// Destroy releases the key handlers and the window. It refuses to run while
// programs or buffers created against the context are still live.
func (c *Context) Destroy() error {
	if c.destroyed {
		return ErrContextDestroyed
	}
	if n := len(c.live); n > 0 {
		err := fmt.Errorf("%w: %d left (%s)", ErrLiveResources, n, c.describeLive())
		Logger().Error("context destroyed before its resources", "err", err)
		return err
	}
	c.observers = nil
	c.win.SetKeyHandler(nil)
	c.win.Destroy()
	c.destroyed = true
	Logger().Info("window destroyed")
	return nil
}

func (c *Context) describeLive() string {
	counts := make(map[ResourceKind]int)
	for k := range c.live {
		counts[k.kind]++
	}
	parts := make([]string, 0, len(counts))
	for kind, n := range counts {
		parts = append(parts, fmt.Sprintf("%d %s", n, kind))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
