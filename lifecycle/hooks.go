package lifecycle

import (
	"time"

	"github.com/QuestScreen/nativeapp/gfx"
	"github.com/QuestScreen/nativeapp/state"
)

// The interfaces below are the extension points of an Application. The hooks
// value passed in Options may implement any subset of them.

// Renderer draws a frame. It is called between clearing the color buffer and
// presenting it, with the context current. The clear color is context state:
// a color set by Render is used when the next frame is cleared.
type Renderer interface {
	Render(gl gfx.GL, width, height int32)
}

// Updater advances the application by the wall-clock time elapsed since the
// previous loop iteration.
type Updater interface {
	Update(delta time.Duration)
}

// AccelerometerListener receives accelerometer samples while the application
// is visible.
type AccelerometerListener interface {
	OnAccelerometer(x, y, z float32)
}

// TouchListener receives the primary pointer of single-pointer motion events.
type TouchListener interface {
	OnTouch(action TouchAction, x, y float32)
}

// StateKeeper stores application data in the saved state and gets it back
// after a restart.
type StateKeeper interface {
	// SaveState is called before the saved state is handed to the platform.
	SaveState(s *state.SavedState)
	// RestoreState is called during Init if a valid saved state was found.
	RestoreState(s *state.SavedState)
}
