// Package platformtest provides a scripted platform.Glue for tests.
package platformtest

import (
	"time"

	"github.com/QuestScreen/nativeapp/platform"
	"go.uber.org/zap"
)

// Window is an in-memory platform.Window.
type Window struct {
	Width, Height int32
	Format        int32
	GeometryCalls int
}

// SetBuffersGeometry implements platform.Window.
func (w *Window) SetBuffersGeometry(width, height, format int32) error {
	w.GeometryCalls++
	w.Format = format
	if width != 0 && height != 0 {
		w.Width, w.Height = width, height
	}
	return nil
}

// Size implements platform.Window.
func (w *Window) Size() (int32, int32) {
	return w.Width, w.Height
}

// Step is one scripted poll result. It returns what Poll reports when no
// wake-up is pending afterwards.
type Step func(g *Glue) (platform.Ident, bool)

// Glue replays a script, one step per Poll. Once the script is exhausted it
// delivers CmdDestroy so that loops under test always terminate.
type Glue struct {
	platform.Base
	window *Window
	script []Step

	// Timeouts records the timeout of every Poll call.
	Timeouts []time.Duration
	// Consumed records the result of every delivered input event.
	Consumed []bool
}

// New creates a glue replaying steps. store may be nil.
func New(store platform.StateStore, steps ...Step) *Glue {
	g := &Glue{script: steps}
	g.InitBase(g, store, zap.NewNop())
	return g
}

// Window implements platform.Glue.
func (g *Glue) Window() platform.Window {
	if g.window == nil {
		return nil
	}
	return g.window
}

// CurrentWindow returns the fake window, nil if there is none.
func (g *Glue) CurrentWindow() *Window {
	return g.window
}

// Append adds steps to the end of the script.
func (g *Glue) Append(steps ...Step) {
	g.script = append(g.script, steps...)
}

// Poll implements platform.Glue.
func (g *Glue) Poll(timeout time.Duration) (platform.Ident, bool) {
	g.Timeouts = append(g.Timeouts, timeout)
	if ident, ok := g.Pending(); ok {
		return ident, true
	}
	if len(g.script) == 0 {
		g.DispatchCommand(platform.CmdDestroy)
		return platform.IdentMain, true
	}
	step := g.script[0]
	g.script = g.script[1:]
	ident, ok := step(g)
	if pending, woken := g.Pending(); woken {
		return pending, true
	}
	return ident, ok
}

// RequestDestroy implements platform.Glue.
func (g *Glue) RequestDestroy() {
	g.Enqueue(platform.CmdDestroy)
}

// Command delivers cmd.
func Command(cmd platform.Command) Step {
	return func(g *Glue) (platform.Ident, bool) {
		g.DispatchCommand(cmd)
		return platform.IdentMain, true
	}
}

// CreateWindow attaches a window of the given size and delivers
// CmdInitWindow.
func CreateWindow(width, height int32) Step {
	return func(g *Glue) (platform.Ident, bool) {
		g.window = &Window{Width: width, Height: height}
		g.DispatchCommand(platform.CmdInitWindow)
		return platform.IdentMain, true
	}
}

// DestroyWindow delivers CmdTermWindow and detaches the window afterwards.
func DestroyWindow() Step {
	return func(g *Glue) (platform.Ident, bool) {
		g.DispatchCommand(platform.CmdTermWindow)
		g.window = nil
		return platform.IdentMain, true
	}
}

// Input delivers ev.
func Input(ev *platform.InputEvent) Step {
	return func(g *Glue) (platform.Ident, bool) {
		g.Consumed = append(g.Consumed, g.DispatchInput(ev))
		return platform.IdentInput, true
	}
}

// Idle reports that no event arrived.
func Idle() Step {
	return func(g *Glue) (platform.Ident, bool) {
		return 0, false
	}
}

// Do runs fn and reports no event of its own; wake-ups fn causes are
// reported by Poll.
func Do(fn func()) Step {
	return func(g *Glue) (platform.Ident, bool) {
		fn()
		return 0, false
	}
}
