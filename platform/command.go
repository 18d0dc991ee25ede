/*
Package platform defines the boundary between an application and the host's
application glue: lifecycle commands, input events, the native window and the
saved-state buffer handed over across process restarts.

Backends live in sub-packages (sdlglue, glfwglue); platformtest provides a
scripted glue for tests.
*/
package platform

import "strconv"

// Command is a lifecycle notification delivered by the glue.
type Command int32

// Commands in the order the native glue numbers them.
const (
	CmdInputChanged Command = iota
	CmdInitWindow
	CmdTermWindow
	CmdWindowResized
	CmdWindowRedrawNeeded
	CmdContentRectChanged
	CmdGainedFocus
	CmdLostFocus
	CmdConfigChanged
	CmdLowMemory
	CmdStart
	CmdResume
	CmdSaveState
	CmdPause
	CmdStop
	CmdDestroy
)

var commandNames = [...]string{
	"input_changed", "init_window", "term_window", "window_resized",
	"window_redraw_needed", "content_rect_changed", "gained_focus",
	"lost_focus", "config_changed", "low_memory", "start", "resume",
	"save_state", "pause", "stop", "destroy"}

func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return "command(" + strconv.Itoa(int(c)) + ")"
	}
	return commandNames[c]
}
