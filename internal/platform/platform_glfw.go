//go:build !js

package platform

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/kjkrol/glquad/pkg/gfx"
)

const (
	contextMajor = 3
	contextMinor = 3
)

// Window is a fixed-size GLFW window owning a current OpenGL 3.3 core
// context. Every method must be called from the thread that created it.
type Window struct {
	win   *glfw.Window
	title string
}

var _ gfx.Surface = (*Window)(nil)

// NewWindow initializes GLFW, opens a non-resizable window and makes its
// context current on the calling OS thread, which stays locked until Close.
func NewWindow(conf WindowConfig) (*Window, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		runtime.UnlockOSThread()
		return nil, surfaceError("glfw.Init", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, contextMajor)
	glfw.WindowHint(glfw.ContextVersionMinor, contextMinor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.DoubleBuffer, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	win, err := glfw.CreateWindow(conf.Width, conf.Height, conf.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		runtime.UnlockOSThread()
		return nil, surfaceError("glfw.CreateWindow", err)
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(conf.SwapInterval)

	return &Window{win: win, title: conf.Title}, nil
}

func surfaceError(op string, err error) error {
	return &gfx.Error{
		Kind: gfx.KindSurfaceCreation,
		Op:   op,
		Err:  fmt.Errorf("%w: %w", ErrSurfaceCreation, err),
	}
}

// Version reports the GLFW runtime version string.
func Version() string {
	return glfw.GetVersionString()
}

func (w *Window) Title() string {
	return w.title
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) ShouldClose() bool {
	return w.win.ShouldClose()
}

func (w *Window) SetShouldClose(v bool) {
	w.win.SetShouldClose(v)
}

func (w *Window) Present() {
	w.win.SwapBuffers()
}

func (w *Window) IsKeyPressed(key gfx.Key) bool {
	k, ok := glfwKey(key)
	if !ok {
		return false
	}
	return w.win.GetKey(k) == glfw.Press
}

func (w *Window) Close() {
	if w.win == nil {
		return
	}
	w.win.Destroy()
	w.win = nil
	glfw.Terminate()
	runtime.UnlockOSThread()
}

func glfwKey(key gfx.Key) (glfw.Key, bool) {
	switch key {
	case gfx.KeyEscape:
		return glfw.KeyEscape, true
	default:
		return glfw.KeyUnknown, false
	}
}
