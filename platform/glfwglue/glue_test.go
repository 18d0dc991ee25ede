package glfwglue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroGeometryLeavesWindowAlone(t *testing.T) {
	// no native window behind w, any call into it would crash
	w := &Window{}
	assert.NoError(t, w.SetBuffersGeometry(0, 0, 1))
	assert.NoError(t, w.SetBuffersGeometry(800, 0, 4))
	assert.Equal(t, Window{}, *w)
}
