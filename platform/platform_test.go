package platform_test

import (
	"path/filepath"
	"testing"

	"github.com/QuestScreen/nativeapp/platform"
	"github.com/QuestScreen/nativeapp/platform/platformtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandString(t *testing.T) {
	assert.Equal(t, "init_window", platform.CmdInitWindow.String())
	assert.Equal(t, "destroy", platform.CmdDestroy.String())
	assert.Equal(t, "command(42)", platform.Command(42).String())
}

func TestHandleRoundTrip(t *testing.T) {
	v := &struct{ n int }{n: 7}
	h := platform.NewHandle(v)
	assert.Same(t, v, h.Value())

	other := platform.NewHandle("x")
	assert.NotEqual(t, h, other)

	h.Delete()
	assert.Panics(t, func() { h.Value() })
	other.Delete()
}

func TestFileStore(t *testing.T) {
	fs := platform.FileStore{Path: filepath.Join(t.TempDir(), "sub", "state.bin")}

	buf, err := fs.Load()
	require.NoError(t, err)
	assert.Nil(t, buf)

	require.NoError(t, fs.Store([]byte{1, 2, 3}))
	buf, err = fs.Load()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, buf)

	require.NoError(t, fs.Store([]byte{4}))
	buf, err = fs.Load()
	require.NoError(t, err)
	assert.Equal(t, []byte{4}, buf)
}

func TestBaseLoadsSavedStateFromStore(t *testing.T) {
	store := &platform.MemoryStore{}
	require.NoError(t, store.Store([]byte("saved")))

	g := platformtest.New(store)
	assert.Equal(t, []byte("saved"), g.SavedState())

	g.SetSavedState([]byte("next"))
	buf, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []byte("next"), buf)
}

func TestPollDeliversWakeupsBeforeScript(t *testing.T) {
	var cmds []platform.Command
	g := platformtest.New(nil, platformtest.Command(platform.CmdStart))
	g.SetHandlers(0, func(_ platform.Glue, cmd platform.Command) {
		cmds = append(cmds, cmd)
	}, nil)

	g.Looper().Wake(platform.IdentUser)
	g.Looper().Wake(platform.IdentUser)

	ident, ok := g.Poll(0)
	require.True(t, ok)
	assert.Equal(t, platform.IdentUser, ident)

	ident, ok = g.Poll(0)
	require.True(t, ok)
	assert.Equal(t, platform.IdentMain, ident)
	assert.Equal(t, []platform.Command{platform.CmdStart}, cmds)

	// script exhausted: destroy is delivered
	ident, ok = g.Poll(platform.Forever)
	require.True(t, ok)
	assert.Equal(t, platform.IdentMain, ident)
	assert.True(t, g.DestroyRequested())
	assert.Equal(t, []platform.Command{platform.CmdStart, platform.CmdDestroy}, cmds)
}

func TestRequestDestroyIsDeliveredAsCommand(t *testing.T) {
	var got []platform.Command
	g := platformtest.New(nil, platformtest.Idle())
	g.SetHandlers(0, func(_ platform.Glue, cmd platform.Command) {
		got = append(got, cmd)
	}, nil)

	done := make(chan struct{})
	go func() {
		g.RequestDestroy()
		close(done)
	}()
	<-done

	_, ok := g.Poll(0)
	require.True(t, ok)
	assert.True(t, g.DestroyRequested())
	assert.Equal(t, []platform.Command{platform.CmdDestroy}, got)
}

func TestAfterDispatchRunsAfterHandler(t *testing.T) {
	var order []string
	g := platformtest.New(nil)
	g.SetHandlers(0, func(_ platform.Glue, cmd platform.Command) {
		order = append(order, "handle "+cmd.String())
	}, nil)
	g.AfterDispatch(func(cmd platform.Command) {
		order = append(order, "after "+cmd.String())
	})

	g.Enqueue(platform.CmdPause)
	g.Enqueue(platform.CmdTermWindow)
	for {
		if _, ok := g.Pending(); !ok {
			break
		}
	}
	assert.Equal(t, []string{"handle pause", "after pause",
		"handle term_window", "after term_window"}, order)
}
