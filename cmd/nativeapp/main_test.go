package main

import (
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/QuestScreen/nativeapp/platform/platformtest"
)

type destroyGlue struct {
	*platformtest.Glue
	requested chan struct{}
	calls     int32
}

func (g *destroyGlue) RequestDestroy() {
	if atomic.AddInt32(&g.calls, 1) == 1 {
		close(g.requested)
	}
}

func newDestroyGlue() *destroyGlue {
	return &destroyGlue{Glue: platformtest.New(nil),
		requested: make(chan struct{})}
}

func TestSignalRequestsDestroy(t *testing.T) {
	g := newDestroyGlue()
	stop := watchSignals(g, zap.NewNop())
	defer stop()

	assert.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))
	select {
	case <-g.requested:
	case <-time.After(5 * time.Second):
		t.Fatal("signal did not request destroy")
	}
}

func TestStopWatchingSignalsLeavesGlueAlone(t *testing.T) {
	g := newDestroyGlue()
	stop := watchSignals(g, zap.NewNop())

	exited := make(chan struct{})
	go func() {
		stop()
		close(exited)
	}()
	select {
	case <-exited:
	case <-time.After(5 * time.Second):
		t.Fatal("stop did not return")
	}
	assert.Zero(t, atomic.LoadInt32(&g.calls))
}
