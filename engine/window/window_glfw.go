package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-storefront/common"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	window  *glfw.Window
	running bool
	closed  bool

	// cursors caches the standard cursor for each shape already requested.
	cursors map[glfw.StandardCursor]*glfw.Cursor
	current common.Cursor
}

// newPlatformWindow creates the GLFW window with input callbacks and stores it as the internal window.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %v", err)
	}

	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %v", err)
	}
	win.SetSizeLimits(w.minWidth, w.minHeight, glfw.DontCare, glfw.DontCare)

	gw := &glfwWindow{
		window:  win,
		running: true,
		cursors: make(map[glfw.StandardCursor]*glfw.Cursor),
	}
	w.internalWindow = gw

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if w.closeOnEscape && key == glfw.KeyEscape && action == glfw.Press {
			gw.running = false
			win.SetShouldClose(true)
			return
		}
		switch action {
		case glfw.Press:
			if w.onKeyDown != nil {
				w.onKeyDown(uint32(key))
			}
		case glfw.Release:
			if w.onKeyUp != nil {
				w.onKeyUp(uint32(key))
			}
		}
	})

	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		b, ok := mouseButton(button)
		if !ok {
			return
		}
		switch action {
		case glfw.Press:
			if w.onMouseDown != nil {
				x, y := framebufferCursor(win)
				w.onMouseDown(b, x, y, mods&glfw.ModShift != 0)
			}
		case glfw.Release:
			if w.onMouseUp != nil {
				w.onMouseUp(b)
			}
		}
	})

	win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		if w.onMouseMove != nil {
			x, y := framebufferCursor(win)
			w.onMouseMove(x, y)
		}
	})

	win.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		if !entered && w.onLeave != nil {
			w.onLeave()
		}
	})

	win.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		if !focused && w.onFocusLost != nil {
			w.onFocusLost()
		}
	})

	// Framebuffer size is what the surface is configured with; on high-DPI displays it differs from the window size.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width = width
		w.height = height
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})

	w.width, w.height = win.GetFramebufferSize()

	return nil
}

// framebufferCursor returns the cursor position scaled from screen coordinates to framebuffer pixels.
func framebufferCursor(win *glfw.Window) (float32, float32) {
	x, y := win.GetCursorPos()
	ww, wh := win.GetSize()
	fw, fh := win.GetFramebufferSize()
	if ww > 0 && wh > 0 {
		x *= float64(fw) / float64(ww)
		y *= float64(fh) / float64(wh)
	}
	return float32(x), float32(y)
}

// mouseButton maps a GLFW button to the engine's button enum.
func mouseButton(b glfw.MouseButton) (common.MouseButton, bool) {
	switch b {
	case glfw.MouseButtonLeft:
		return common.MouseButtonPrimary, true
	case glfw.MouseButtonRight:
		return common.MouseButtonSecondary, true
	case glfw.MouseButtonMiddle:
		return common.MouseButtonMiddle, true
	}
	return 0, false
}

// cursorShape maps a cursor affordance to the closest GLFW 3.3 standard shape.
// GLFW 3.3 has no grab or move shapes, so grab uses the hand and rotate uses the horizontal resize arrow.
func cursorShape(c common.Cursor) glfw.StandardCursor {
	switch c {
	case common.CursorGrab, common.CursorGrabbing:
		return glfw.HandCursor
	case common.CursorMove:
		return glfw.HResizeCursor
	case common.CursorCrosshair:
		return glfw.CrosshairCursor
	}
	return glfw.ArrowCursor
}

// platformSetCursor applies a standard cursor, creating it on first use.
func platformSetCursor(w *engineWindow, c common.Cursor) {
	if w.internalWindow == nil {
		return
	}
	gw := w.internalWindow.(*glfwWindow)
	if gw.closed || gw.current == c {
		return
	}
	gw.current = c
	if c == common.CursorDefault {
		gw.window.SetCursor(nil)
		return
	}
	shape := cursorShape(c)
	cur, ok := gw.cursors[shape]
	if !ok {
		cur = glfw.CreateStandardCursor(shape)
		gw.cursors[shape] = cur
	}
	gw.window.SetCursor(cur)
}

// platformGetSurfaceDescriptor creates a platform-appropriate wgpu.SurfaceDescriptor from the GLFW window.
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	if w.internalWindow == nil {
		return nil
	}
	gw := w.internalWindow.(*glfwWindow)
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

// platformIsRunningCheck returns whether the GLFW window is still active.
func platformIsRunningCheck(w *engineWindow) bool {
	if w.internalWindow == nil {
		return false
	}
	gw := w.internalWindow.(*glfwWindow)
	return gw.running && !gw.closed && !gw.window.ShouldClose()
}

// platformCloseWindow destroys the GLFW window and terminates the GLFW library.
//
// Parameters:
//   - w: the engineWindow to close
//
// Returns:
//   - error: error if the window is not initialized
func platformCloseWindow(w *engineWindow) error {
	if w.internalWindow == nil {
		return fmt.Errorf("window is not initialized")
	}
	gw := w.internalWindow.(*glfwWindow)
	if gw.closed {
		return nil
	}
	gw.running = false
	gw.closed = true
	for _, cur := range gw.cursors {
		cur.Destroy()
	}
	gw.window.SetShouldClose(true)
	gw.window.Destroy()
	glfw.Terminate()
	return nil
}

// platformProcessMessages polls GLFW for pending events without blocking.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#PollEvents
func platformProcessMessages(w *engineWindow) bool {
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}
