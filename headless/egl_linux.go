//go:build linux

package headless

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/richinsley/glharness/graphics"
)

/*
#cgo LDFLAGS: -lEGL
#include <EGL/egl.h>
#include <EGL/eglext.h>

static PFNEGLQUERYDEVICESEXTPROC eglQueryDevicesEXT_ptr = NULL;
static PFNEGLGETPLATFORMDISPLAYEXTPROC eglGetPlatformDisplayEXT_ptr = NULL;

static void initialize_egl_extension_pointers() {
    eglQueryDevicesEXT_ptr = (PFNEGLQUERYDEVICESEXTPROC) eglGetProcAddress("eglQueryDevicesEXT");
    eglGetPlatformDisplayEXT_ptr = (PFNEGLGETPLATFORMDISPLAYEXTPROC) eglGetProcAddress("eglGetPlatformDisplayEXT");
}

static EGLDisplay get_platform_display(EGLenum platform, void *native_display, const EGLint *attrib_list) {
    if (eglGetPlatformDisplayEXT_ptr) {
        return eglGetPlatformDisplayEXT_ptr(platform, native_display, attrib_list);
    }
    return EGL_NO_DISPLAY;
}

static EGLBoolean query_devices(EGLint max_devices, EGLDeviceEXT *devices, EGLint *num_devices) {
    if (eglQueryDevicesEXT_ptr) {
        return eglQueryDevicesEXT_ptr(max_devices, devices, num_devices);
    }
    return EGL_FALSE;
}
*/
import "C"

// Window is an EGL pbuffer surface with a desktop OpenGL 4.1 core context.
// It never receives input; closure happens through SetShouldClose.
type Window struct {
	display C.EGLDisplay
	context C.EGLContext
	surface C.EGLSurface

	width, height int
	close         bool
	handler       func(graphics.KeyEvent)
}

var _ graphics.Window = (*Window)(nil)

// getEGLDisplay tries device enumeration first and falls back to the
// default display.
func getEGLDisplay() (C.EGLDisplay, error) {
	C.initialize_egl_extension_pointers()

	var numDevices C.EGLint
	if C.query_devices(0, nil, &numDevices) == C.EGL_FALSE || numDevices == 0 {
		graphics.Logger().Warn("EGL_EXT_device_query unavailable, using EGL_DEFAULT_DISPLAY")
		display := C.eglGetDisplay(C.EGLNativeDisplayType(C.EGL_DEFAULT_DISPLAY))
		if display == C.EGLDisplay(C.EGL_NO_DISPLAY) {
			return C.EGLDisplay(C.EGL_NO_DISPLAY), fmt.Errorf("eglGetDisplay(EGL_DEFAULT_DISPLAY) failed")
		}
		return display, nil
	}

	devices := make([]C.EGLDeviceEXT, numDevices)
	if C.query_devices(numDevices, &devices[0], &numDevices) == C.EGL_FALSE {
		return C.EGLDisplay(C.EGL_NO_DISPLAY), fmt.Errorf("failed to query EGL devices")
	}
	for i := 0; i < int(numDevices); i++ {
		display := C.get_platform_display(C.EGL_PLATFORM_DEVICE_EXT, unsafe.Pointer(devices[i]), nil)
		if display != C.EGLDisplay(C.EGL_NO_DISPLAY) {
			graphics.Logger().Info("EGL display selected", "device", i, "devices", int(numDevices))
			return display, nil
		}
	}
	return C.EGLDisplay(C.EGL_NO_DISPLAY), fmt.Errorf("no EGL device produced a display")
}

// New creates a width×height pbuffer and makes its context current on the
// calling thread.
func New(cfg graphics.WindowConfig) (*Window, error) {
	cfg = cfg.Normalized()
	h := &Window{
		display: C.EGLDisplay(C.EGL_NO_DISPLAY),
		context: C.EGLContext(C.EGL_NO_CONTEXT),
		surface: C.EGLSurface(C.EGL_NO_SURFACE),
		width:   cfg.Width,
		height:  cfg.Height,
	}

	var err error
	h.display, err = getEGLDisplay()
	if err != nil {
		return nil, graphics.InitFailed(err)
	}

	var major, minor C.EGLint
	if C.eglInitialize(h.display, &major, &minor) == C.EGL_FALSE {
		return nil, graphics.InitFailed(errors.New("eglInitialize failed"))
	}
	if C.eglBindAPI(C.EGL_OPENGL_API) == C.EGL_FALSE {
		h.Destroy()
		return nil, graphics.InitFailed(errors.New("desktop OpenGL API unavailable"))
	}
	graphics.Logger().Info("EGL initialized", "major", int(major), "minor", int(minor))

	configAttribs := []C.EGLint{
		C.EGL_SURFACE_TYPE, C.EGL_PBUFFER_BIT,
		C.EGL_RED_SIZE, 8,
		C.EGL_GREEN_SIZE, 8,
		C.EGL_BLUE_SIZE, 8,
		C.EGL_ALPHA_SIZE, 8,
		C.EGL_DEPTH_SIZE, 24,
		C.EGL_RENDERABLE_TYPE, C.EGL_OPENGL_BIT,
		C.EGL_NONE,
	}
	var config C.EGLConfig
	var numConfig C.EGLint
	if C.eglChooseConfig(h.display, &configAttribs[0], &config, 1, &numConfig) == C.EGL_FALSE || numConfig == 0 {
		h.Destroy()
		return nil, graphics.WindowCreateFailed(errors.New("no matching EGL config"))
	}

	pbufferAttribs := []C.EGLint{
		C.EGL_WIDTH, C.EGLint(cfg.Width),
		C.EGL_HEIGHT, C.EGLint(cfg.Height),
		C.EGL_NONE,
	}
	h.surface = C.eglCreatePbufferSurface(h.display, config, &pbufferAttribs[0])
	if h.surface == C.EGLSurface(C.EGL_NO_SURFACE) {
		h.Destroy()
		return nil, graphics.WindowCreateFailed(errors.New("pbuffer surface"))
	}

	contextAttribs := []C.EGLint{
		C.EGL_CONTEXT_MAJOR_VERSION, 4,
		C.EGL_CONTEXT_MINOR_VERSION, 1,
		C.EGL_CONTEXT_OPENGL_PROFILE_MASK, C.EGL_CONTEXT_OPENGL_CORE_PROFILE_BIT,
		C.EGL_NONE,
	}
	h.context = C.eglCreateContext(h.display, config, C.EGLContext(C.EGL_NO_CONTEXT), &contextAttribs[0])
	if h.context == C.EGLContext(C.EGL_NO_CONTEXT) {
		h.Destroy()
		return nil, graphics.WindowCreateFailed(errors.New("EGL context"))
	}

	if C.eglMakeCurrent(h.display, h.surface, h.surface, h.context) == C.EGL_FALSE {
		h.Destroy()
		return nil, graphics.WindowCreateFailed(errors.New("eglMakeCurrent failed"))
	}
	C.eglSwapInterval(h.display, C.EGLint(cfg.PresentInterval()))

	graphics.Logger().Info("headless surface created", "width", cfg.Width, "height", cfg.Height)
	return h, nil
}

func (h *Window) ShouldClose() bool { return h.close }

func (h *Window) SetShouldClose(v bool) { h.close = v }

func (h *Window) SetKeyHandler(fn func(graphics.KeyEvent)) { h.handler = fn }

func (h *Window) FramebufferSize() (int, int) { return h.width, h.height }

// PollEvents is a no-op; a pbuffer has no event source.
func (h *Window) PollEvents() {}

func (h *Window) SwapBuffers() {
	C.eglSwapBuffers(h.display, h.surface)
}

// Destroy releases the context, the surface and the display connection.
func (h *Window) Destroy() {
	h.handler = nil
	if h.display == C.EGLDisplay(C.EGL_NO_DISPLAY) {
		return
	}
	C.eglMakeCurrent(h.display, C.EGLSurface(C.EGL_NO_SURFACE), C.EGLSurface(C.EGL_NO_SURFACE), C.EGLContext(C.EGL_NO_CONTEXT))
	if h.context != C.EGLContext(C.EGL_NO_CONTEXT) {
		C.eglDestroyContext(h.display, h.context)
		h.context = C.EGLContext(C.EGL_NO_CONTEXT)
	}
	if h.surface != C.EGLSurface(C.EGL_NO_SURFACE) {
		C.eglDestroySurface(h.display, h.surface)
		h.surface = C.EGLSurface(C.EGL_NO_SURFACE)
	}
	C.eglTerminate(h.display)
	h.display = C.EGLDisplay(C.EGL_NO_DISPLAY)
	graphics.Logger().Info("headless surface destroyed")
}
