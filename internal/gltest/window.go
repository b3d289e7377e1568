package gltest

import "github.com/richinsley/glharness/graphics"

// Window is an in-memory graphics.Window. Queued key events are delivered on
// the next PollEvents.
type Window struct {
	Width, Height int

	// CloseAfterPolls sets the close flag on the given poll when positive.
	CloseAfterPolls int

	Swaps     int
	Polls     int
	Destroyed int

	// Device, when set, has "SwapBuffers", "PollEvents" and "DestroyWindow"
	// recorded into its call log so ordering can be checked across both fakes.
	Device *Device

	close   bool
	handler func(graphics.KeyEvent)
	queue   []graphics.KeyEvent
}

var _ graphics.Window = (*Window)(nil)

// NewWindow returns a fake window of the given size.
func NewWindow(width, height int) *Window {
	return &Window{Width: width, Height: height}
}

// Queue schedules a key event for the next PollEvents.
func (w *Window) Queue(key graphics.Key, action graphics.Action) {
	w.queue = append(w.queue, graphics.KeyEvent{Key: key, Action: action})
}

// HasHandler reports whether a key handler is installed.
func (w *Window) HasHandler() bool {
	return w.handler != nil
}

func (w *Window) ShouldClose() bool { return w.close }

func (w *Window) SetShouldClose(v bool) { w.close = v }

func (w *Window) FramebufferSize() (int, int) { return w.Width, w.Height }

func (w *Window) SetKeyHandler(fn func(graphics.KeyEvent)) {
	w.handler = fn
}

func (w *Window) SwapBuffers() {
	w.Swaps++
	if w.Device != nil {
		w.Device.record("SwapBuffers")
	}
}

func (w *Window) PollEvents() {
	w.Polls++
	if w.Device != nil {
		w.Device.record("PollEvents")
	}
	queue := w.queue
	w.queue = nil
	for _, ev := range queue {
		if w.handler != nil {
			w.handler(ev)
		}
	}
	if w.CloseAfterPolls > 0 && w.Polls >= w.CloseAfterPolls {
		w.close = true
	}
}

func (w *Window) Destroy() {
	w.Destroyed++
	if w.Device != nil {
		w.Device.record("DestroyWindow")
	}
}
