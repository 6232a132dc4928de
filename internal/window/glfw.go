// Package window implements the bootstrap windowing subsystem on GLFW.
//
// GLFW must be driven from the main OS thread; callers lock it in an init func.
package window

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/ibd1279/vks-examples/tutorial-bootstrap/internal/bootstrap"
)

// GLFW is the process-wide GLFW library.
type GLFW struct{}

var _ bootstrap.Windowing = GLFW{}

func (GLFW) Init() error {
	if err := glfw.Init(); err != nil {
		return errors.Wrap(err, "glfw.Init")
	}
	if !glfw.VulkanSupported() {
		glfw.Terminate()
		return errors.New("glfw: no Vulkan loader found")
	}
	return nil
}

// CreateWindow opens a fixed-size window with no OpenGL context.
func (GLFW) CreateWindow(width, height int, title string) (bootstrap.Window, error) {
	// Tell GLFW we aren't using OpenGL, and that the window cannot be resized.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "glfw.CreateWindow")
	}
	return &Window{window: win}, nil
}

func (GLFW) PollEvents() {
	glfw.PollEvents()
}

func (GLFW) Terminate() {
	glfw.Terminate()
}

// Window is a GLFW window.
type Window struct {
	window *glfw.Window
}

var _ bootstrap.Window = &Window{}

func (w *Window) ShouldClose() bool {
	return w.window.ShouldClose()
}

func (w *Window) RequiredInstanceExtensions() []string {
	return w.window.GetRequiredInstanceExtensions()
}

func (w *Window) Destroy() {
	w.window.Destroy()
}

// InstanceProcAddr returns the address of vkGetInstanceProcAddr as resolved
// by GLFW, or nil before Init.
func InstanceProcAddr() unsafe.Pointer {
	return glfw.GetVulkanGetInstanceProcAddress()
}
