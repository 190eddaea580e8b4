package hostwindow

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// platformWindow holds the GLFW-specific state behind glfwWindow.internalWindow.
type platformWindow struct {
	window  *glfw.Window
	running bool
}

func modsFrom(w *glfwWindow) (shift, control, alt bool) {
	return w.modifiers()
}

// newPlatformWindow creates the GLFW window and wires every input
// callback into a single normalized PointerEvent stream, the graph
// engine's interaction.Manager expecting one event kind rather than the
// teacher's per-gesture callback set.
func newPlatformWindow(w *glfwWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("hostwindow: initializing glfw: %w", err)
	}

	// WebGPU owns its own graphics API; no GL context needed.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("hostwindow: creating window: %w", err)
	}

	pw := &platformWindow{window: win, running: true}
	w.internalWindow = pw

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			pw.running = false
			win.SetShouldClose(true)
			return
		}
		w.shiftDown = mods&glfw.ModShift != 0
		w.controlDown = mods&glfw.ModControl != 0
		w.altDown = mods&glfw.ModAlt != 0
	})

	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		if w.onPointer == nil {
			return
		}
		xpos, ypos := win.GetCursorPos()
		shift, control, alt := modsFrom(w)
		w.onPointer(PointerEvent{
			Kind:       PointerWheel,
			X:          float32(xpos),
			Y:          float32(ypos),
			WheelDelta: float32(yoff),
			Shift:      shift,
			Control:    control,
			Alt:        alt,
		})
	})

	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft || w.onPointer == nil {
			return
		}
		xpos, ypos := win.GetCursorPos()
		kind := PointerDown
		if action == glfw.Release {
			kind = PointerUp
		}
		w.onPointer(PointerEvent{
			Kind:    kind,
			X:       float32(xpos),
			Y:       float32(ypos),
			Shift:   mods&glfw.ModShift != 0,
			Control: mods&glfw.ModControl != 0,
			Alt:     mods&glfw.ModAlt != 0,
		})
	})

	win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		if w.onPointer == nil {
			return
		}
		shift, control, alt := modsFrom(w)
		w.onPointer(PointerEvent{
			Kind:    PointerMove,
			X:       float32(xpos),
			Y:       float32(ypos),
			Shift:   shift,
			Control: control,
			Alt:     alt,
		})
	})

	// Framebuffer size callback gives pixel-accurate dimensions on
	// high-DPI displays, where window size and framebuffer size differ.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width = width
		w.height = height
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})

	fbWidth, fbHeight := win.GetFramebufferSize()
	w.width = fbWidth
	w.height = fbHeight

	return nil
}

// platformGetSurfaceDescriptor bridges the GLFW window to a
// platform-appropriate wgpu.SurfaceDescriptor via wgpuglfw (X11,
// Wayland, Win32 or Cocoa depending on build target).
func platformGetSurfaceDescriptor(w *glfwWindow) *wgpu.SurfaceDescriptor {
	if w.internalWindow == nil {
		return nil
	}
	pw := w.internalWindow.(*platformWindow)
	return wgpuglfw.GetSurfaceDescriptor(pw.window)
}

func platformIsRunningCheck(w *glfwWindow) bool {
	if w.internalWindow == nil {
		return false
	}
	pw := w.internalWindow.(*platformWindow)
	return pw.running && !pw.window.ShouldClose()
}

func platformCloseWindow(w *glfwWindow) error {
	if w.internalWindow == nil {
		return fmt.Errorf("hostwindow: window is not initialized")
	}
	pw := w.internalWindow.(*platformWindow)
	pw.running = false
	pw.window.SetShouldClose(true)
	pw.window.Destroy()
	glfw.Terminate()
	return nil
}

func platformProcessMessages(w *glfwWindow) {
	glfw.PollEvents()
}
