// Package gles implements gfx.GL on top of the GL ES 2 bindings. The bindings
// must be loaded with Load while a context is current.
package gles

import (
	"sync"

	"github.com/go-gl/gl/v3.1/gles2"
)

var (
	loadOnce sync.Once
	loadErr  error
)

// Load loads the GL ES entry points. Only the first call does any work.
func Load() error {
	loadOnce.Do(func() {
		loadErr = gles2.Init()
	})
	return loadErr
}

// GL forwards to the GL ES 2 bindings of the current context.
type GL struct{}

func (GL) ClearColor(r, g, b, a float32) {
	gles2.ClearColor(r, g, b, a)
}

func (GL) Clear() {
	gles2.Clear(gles2.COLOR_BUFFER_BIT)
}

func (GL) Viewport(x, y, width, height int32) {
	gles2.Viewport(x, y, width, height)
}

func (GL) Version() string {
	return gles2.GoStr(gles2.GetString(gles2.VERSION))
}

func (GL) ShadingLanguageVersion() string {
	return gles2.GoStr(gles2.GetString(gles2.SHADING_LANGUAGE_VERSION))
}
