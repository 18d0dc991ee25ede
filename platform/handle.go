package platform

import (
	"sync"
	"sync/atomic"
)

// Handle is an opaque reference to a Go value that can travel through the
// glue's user-data slot. It is resolved back with Value.
type Handle uintptr

var (
	handles   sync.Map
	handleIdx uintptr
)

// NewHandle returns a handle for v. The handle stays valid until Delete is
// called.
func NewHandle(v interface{}) Handle {
	h := atomic.AddUintptr(&handleIdx, 1)
	handles.Store(h, v)
	return Handle(h)
}

// Value returns the value the handle refers to. It panics if the handle is
// invalid.
func (h Handle) Value() interface{} {
	v, ok := handles.Load(uintptr(h))
	if !ok {
		panic("platform: misuse of an invalid Handle")
	}
	return v
}

// Delete invalidates the handle.
func (h Handle) Delete() {
	handles.Delete(uintptr(h))
}
