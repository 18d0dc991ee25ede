package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewNamesRootLogger(t *testing.T) {
	out := filepath.Join(t.TempDir(), "log.json")
	log, err := New(Config{Level: "debug", OutputPaths: []string{out}})
	require.NoError(t, err)
	assert.Equal(t, Tag, log.Name())
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "chatty"})
	assert.Error(t, err)
}

func TestEmptyLevelIsInfo(t *testing.T) {
	l, err := parseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, l)
}
