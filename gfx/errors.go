package gfx

// Step names a stage of context acquisition.
type Step string

// Acquisition stages in the order they are performed.
const (
	StepDisplay     Step = "open display"
	StepConfig      Step = "choose config"
	StepVisual      Step = "query native visual"
	StepGeometry    Step = "set buffers geometry"
	StepSurface     Step = "create window surface"
	StepContext     Step = "create context"
	StepMakeCurrent Step = "make current"
	StepQuerySize   Step = "query surface size"
)

// ContextError is returned when a rendering context could not be acquired.
type ContextError struct {
	Step Step
	// may be nil if the driver gave no further reason.
	Err error
}

func (ce *ContextError) Error() string {
	if ce.Err == nil {
		return "unable to " + string(ce.Step)
	}
	return "unable to " + string(ce.Step) + ": " + ce.Err.Error()
}

// Unwrap returns the driver error.
func (ce *ContextError) Unwrap() error {
	return ce.Err
}
