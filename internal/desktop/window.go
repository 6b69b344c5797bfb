//go:build !android

package desktop

import (
	"context"
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"

	"smoke/internal/smoke"
)

// Window is the drawing surface and the refresh source of the desktop loop.
// Swapping with vsync paces the scheduler to the display.
type Window struct {
	*glfw.Window
	started bool
}

func initWindow(cfg *smoke.Config) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Decorated, glfw.True)

	window, err := glfw.CreateWindow(cfg.WindowWidth, cfg.WindowHeight, "Smoke", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	return &Window{Window: window}, nil
}

// WaitRefresh presents the previous frame, polls events and returns the
// current time.
func (w *Window) WaitRefresh(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if w.started {
		w.SwapBuffers()
	}
	w.started = true

	glfw.PollEvents()
	if w.GetKey(glfw.KeyEscape) == glfw.Press {
		w.SetShouldClose(true)
	}
	if w.ShouldClose() {
		return 0, smoke.ErrSurfaceClosed
	}
	return glfw.GetTime(), nil
}

// FramebufferSize is read every frame; the window is resizable.
func (w *Window) FramebufferSize() (int, int) {
	return w.GetFramebufferSize()
}
