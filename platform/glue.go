package platform

import "time"

// Ident identifies the source that made Poll return.
type Ident int

const (
	// IdentMain is reported for lifecycle commands.
	IdentMain Ident = 1
	// IdentInput is reported for input events.
	IdentInput Ident = 2
	// IdentUser is the first ident free for application sources such as
	// sensor event queues.
	IdentUser Ident = 3
)

// Forever makes Poll block until an event arrives.
const Forever time.Duration = -1

// Window is the native window a rendering surface is created for.
type Window interface {
	// SetBuffersGeometry changes size and pixel format of the window buffers.
	// Zero width and height keep the window's base size.
	SetBuffersGeometry(width, height, format int32) error
	// Size returns the current size in pixels.
	Size() (width, height int32)
}

// CommandFunc handles a lifecycle command.
type CommandFunc func(g Glue, cmd Command)

// InputFunc handles an input event and reports whether it was consumed.
type InputFunc func(g Glue, ev *InputEvent) bool

// Looper is the polling mechanism event sources attach to.
type Looper interface {
	// Wake makes Poll report ident, either from the Poll currently running or
	// from the next one.
	Wake(ident Ident)
}

// Glue is the host's application glue.
//
// All methods except RequestDestroy must be called from the thread running
// the poll loop. Handlers are invoked synchronously from within Poll.
type Glue interface {
	// SetHandlers registers the receiver of commands and input events. The
	// handle is stored as user data and can be retrieved with UserData.
	SetHandlers(h Handle, onCmd CommandFunc, onInput InputFunc)
	UserData() Handle
	// Window returns the current window, nil if there is none.
	Window() Window
	// SavedState returns the buffer saved by a previous instance, nil if none.
	SavedState() []byte
	// SetSavedState hands a buffer over to the platform for the next instance.
	SetSavedState(buf []byte)
	Looper() Looper
	// Poll waits up to timeout for the next event and processes it. A
	// negative timeout waits forever, zero does not wait. ok is false if no
	// event was available.
	Poll(timeout time.Duration) (ident Ident, ok bool)
	DestroyRequested() bool
	// RequestDestroy asks the glue to deliver CmdDestroy. It is safe to call
	// from any goroutine.
	RequestDestroy()
}
