package platform

import "time"

// InputKind tells key events from motion events.
type InputKind int

const (
	// InputKey is a hardware or soft keyboard event.
	InputKey InputKind = iota + 1
	// InputMotion is a touch, mouse or trackball event.
	InputMotion
)

// MotionAction is the action of a motion event.
type MotionAction int

const (
	ActionDown MotionAction = iota
	ActionUp
	ActionMove
	ActionCancel
)

// Pointer is one contact of a motion event, in window pixels.
type Pointer struct {
	ID   int64
	X, Y float32
}

// InputEvent is an input event as delivered by the glue.
type InputEvent struct {
	Kind   InputKind
	Action MotionAction
	// Pointers lists all active contacts; the first one is the primary pointer.
	// Empty for key events.
	Pointers []Pointer
	KeyCode  int32
	Time     time.Duration
}

// PointerCount returns the number of contacts of a motion event.
func (ev *InputEvent) PointerCount() int {
	return len(ev.Pointers)
}

// X returns the x coordinate of the pointer at index i.
func (ev *InputEvent) X(i int) float32 {
	return ev.Pointers[i].X
}

// Y returns the y coordinate of the pointer at index i.
func (ev *InputEvent) Y(i int) float32 {
	return ev.Pointers[i].Y
}
