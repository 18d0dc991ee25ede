package lifecycle

import (
	"strconv"

	"github.com/QuestScreen/nativeapp/internal/metrics"
	"github.com/QuestScreen/nativeapp/platform"
	"github.com/QuestScreen/nativeapp/state"
	"go.uber.org/zap"
)

// handleCommand and handleInput are registered with the glue. They resolve
// the user data handle to the application and forward to its methods.

func handleCommand(g platform.Glue, cmd platform.Command) {
	fromGlue(g).HandleCommand(cmd)
}

func handleInput(g platform.Glue, ev *platform.InputEvent) bool {
	return fromGlue(g).HandleInput(ev)
}

func fromGlue(g platform.Glue) *Application {
	return g.UserData().Value().(*Application)
}

// HandleCommand processes a lifecycle command.
func (a *Application) HandleCommand(cmd platform.Command) {
	metrics.Commands.WithLabelValues(cmd.String()).Inc()
	switch cmd {
	case platform.CmdSaveState:
		a.saveState()
	case platform.CmdInitWindow:
		if win := a.glue.Window(); win != nil {
			if err := a.AcquireGraphicsContext(win); err == nil {
				a.OnDraw()
			}
		}
	case platform.CmdTermWindow:
		a.ReleaseGraphicsContext()
		a.setVisible(false)
	case platform.CmdGainedFocus:
		a.setVisible(true)
	case platform.CmdLostFocus:
		a.setVisible(false)
	case platform.CmdWindowResized, platform.CmdContentRectChanged:
		a.resize()
	case platform.CmdWindowRedrawNeeded:
		a.OnDraw()
	case platform.CmdLowMemory:
		a.log.Warn("platform reports low memory")
	case platform.CmdDestroy:
		a.log.Info("destroy requested")
	default:
		a.log.Debug("ignoring command", zap.Stringer("cmd", cmd))
	}
}

func (a *Application) saveState() {
	if keeper, ok := a.hooks.(StateKeeper); ok {
		keeper.SaveState(&a.saved)
	}
	buf, err := a.saved.MarshalBinary()
	if err != nil {
		a.log.Error("unable to encode saved state", zap.Error(err))
		return
	}
	if len(buf) != state.Size {
		panic("saved state encoded to " + strconv.Itoa(len(buf)) + " bytes")
	}
	a.glue.SetSavedState(buf)
}

// setVisible switches visibility. The accelerometer is enabled exactly while
// the application is visible.
func (a *Application) setVisible(visible bool) {
	if visible && !a.sensorEnabled && a.accelerometer != nil {
		if err := a.sensorQueue.Enable(a.accelerometer); err != nil {
			a.log.Warn("unable to enable accelerometer", zap.Error(err))
		} else {
			a.sensorEnabled = true
			if err := a.sensorQueue.SetEventRate(a.accelerometer, a.sensorRate); err != nil {
				a.log.Warn("unable to set accelerometer rate", zap.Error(err))
			}
		}
	} else if !visible && a.sensorEnabled {
		if err := a.sensorQueue.Disable(a.accelerometer); err != nil {
			a.log.Warn("unable to disable accelerometer", zap.Error(err))
		}
		a.sensorEnabled = false
	}
	a.visible = visible
}

func (a *Application) resize() {
	if a.binding == nil {
		return
	}
	if err := a.binding.QuerySize(); err != nil {
		a.log.Warn("unable to query surface size", zap.Error(err))
		return
	}
	a.width, a.height = a.binding.Width, a.binding.Height
	a.binding.GL().Viewport(0, 0, a.width, a.height)
	a.log.Info("surface resized", zap.Int32("width", a.width),
		zap.Int32("height", a.height))
}

// HandleInput processes an input event and reports whether it was consumed.
// Only motion events with a single pointer are consumed.
func (a *Application) HandleInput(ev *platform.InputEvent) bool {
	consumed := ev.Kind == platform.InputMotion && ev.PointerCount() == 1
	metrics.InputEvents.WithLabelValues(strconv.FormatBool(consumed)).Inc()
	if !consumed {
		return false
	}
	x, y := ev.X(0), ev.Y(0)
	if l, ok := a.hooks.(TouchListener); ok {
		l.OnTouch(ev.Action, x, y)
	}
	return true
}
