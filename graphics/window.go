package graphics

// Key codes follow the GLFW numbering so windowing backends can convert
// without a lookup table.
type Key int

const (
	KeyUnknown Key = -1
	KeySpace   Key = 32
	KeyEscape  Key = 256
	KeyEnter   Key = 257
)

// Action is the transition reported for a key.
type Action int

const (
	Release Action = iota
	Press
	Repeat
)

func (a Action) String() string {
	switch a {
	case Release:
		return "release"
	case Press:
		return "press"
	case Repeat:
		return "repeat"
	}
	return "unknown"
}

// KeyEvent is delivered to observers during PollEvents.
type KeyEvent struct {
	Key    Key
	Action Action
}

// Window is the native window plus the drawing context current on it.
type Window interface {
	ShouldClose() bool
	SetShouldClose(bool)
	SwapBuffers()
	// PollEvents delivers queued input to the handler set with SetKeyHandler.
	PollEvents()
	SetKeyHandler(func(KeyEvent))
	FramebufferSize() (int, int)
	// Destroy releases the window and shuts the windowing subsystem down.
	Destroy()
}

const (
	DefaultTitle        = "Hello World!"
	DefaultWidth        = 300
	DefaultHeight       = 300
	DefaultSwapInterval = 1
)

// NoSwapInterval disables vertical sync. Zero selects DefaultSwapInterval.
const NoSwapInterval = -1

// WindowConfig describes the window to create.
type WindowConfig struct {
	Title  string
	Width  int
	Height int
	// SwapInterval is the number of refreshes to wait per presented frame.
	SwapInterval int
}

// PresentInterval is the interval handed to the windowing backend.
func (c WindowConfig) PresentInterval() int {
	if c.SwapInterval < 0 {
		return 0
	}
	return c.SwapInterval
}

// Normalized applies the defaults for an empty title, zero sizes and a zero
// swap interval.
func (c WindowConfig) Normalized() WindowConfig {
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.SwapInterval == 0 {
		c.SwapInterval = DefaultSwapInterval
	}
	return c
}
