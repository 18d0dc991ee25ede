/*
Package gfx negotiates and owns a rendering context: a display connection, a
window surface and a GL ES context bound to each other.

Drivers live in sub-packages (sdlgl, glfwgl); gfxtest provides an in-memory
driver for tests.
*/
package gfx

import "github.com/QuestScreen/nativeapp/platform"

// SurfaceType is a bitmask of the surface kinds a config must support.
type SurfaceType int32

// Surface types, numbered like EGL's surface bits.
const (
	PbufferBit SurfaceType = 0x0001
	PixmapBit  SurfaceType = 0x0002
	WindowBit  SurfaceType = 0x0004
)

// Attribs are the minimum capabilities a config must have. Zero sizes mean
// "don't care".
type Attribs struct {
	SurfaceType                  SurfaceType
	RedSize, GreenSize, BlueSize int32
	AlphaSize, DepthSize         int32
}

// DefaultAttribs selects a window-drawable config with at least 8 bits per
// color channel.
var DefaultAttribs = Attribs{
	SurfaceType: WindowBit, RedSize: 8, GreenSize: 8, BlueSize: 8}

// ClientVersion is the GL ES major version contexts are created for.
const ClientVersion = 2

// Config is a driver-specific frame buffer configuration.
type Config interface{}

// Surface is a driver-specific rendering surface.
type Surface interface{}

// Context is a driver-specific rendering context.
type Context interface{}

// Driver gives access to the default display.
type Driver interface {
	// Open connects to the default display and initializes it.
	Open() (Display, error)
}

// Display is an initialized display connection.
type Display interface {
	ChooseConfig(a Attribs) (Config, error)
	// NativeVisualID returns the native pixel format of the config. It is
	// guaranteed to be accepted by platform.Window.SetBuffersGeometry.
	NativeVisualID(c Config) (int32, error)
	CreateWindowSurface(c Config, win platform.Window) (Surface, error)
	CreateContext(c Config, clientVersion int) (Context, error)
	MakeCurrent(s Surface, ctx Context) error
	// ReleaseCurrent unbinds any surface and context from the calling thread.
	ReleaseCurrent() error
	SurfaceSize(s Surface) (width, height int32, err error)
	SwapBuffers(s Surface) error
	DestroyContext(ctx Context) error
	DestroySurface(s Surface) error
	Terminate() error
	// GL returns the GL entry points of the current context.
	GL() GL
}

// GL is the part of GL ES the lifecycle needs.
type GL interface {
	ClearColor(r, g, b, a float32)
	// Clear clears the color buffer.
	Clear()
	Viewport(x, y, width, height int32)
	Version() string
	ShadingLanguageVersion() string
}
