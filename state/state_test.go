package state_test

import (
	"errors"
	"testing"

	"github.com/QuestScreen/nativeapp/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encoded(t *testing.T, payload []byte) []byte {
	t.Helper()
	var s state.SavedState
	require.NoError(t, s.SetPayload(payload))
	buf, err := s.MarshalBinary()
	require.NoError(t, err)
	return buf
}

func TestEncodedSizeIsFixed(t *testing.T) {
	assert.Len(t, encoded(t, nil), state.Size)
	assert.Len(t, encoded(t, make([]byte, state.PayloadSize)), state.Size)
}

func TestRestoreIsByteIdentical(t *testing.T) {
	payload := make([]byte, state.PayloadSize)
	for i := range payload {
		payload[i] = byte(i * 7)
	}
	buf := encoded(t, payload)

	var restored state.SavedState
	require.NoError(t, restored.UnmarshalBinary(buf))
	assert.Equal(t, payload, restored.Payload())

	again, err := restored.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, buf, again)
}

func TestSetPayloadTooLarge(t *testing.T) {
	var s state.SavedState
	assert.Error(t, s.SetPayload(make([]byte, state.PayloadSize+1)))
	assert.Empty(t, s.Payload())
}

func TestSetPayloadClearsPrevious(t *testing.T) {
	var s state.SavedState
	require.NoError(t, s.SetPayload([]byte("longer payload")))
	require.NoError(t, s.SetPayload([]byte("ab")))
	buf, err := s.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, make([]byte, state.PayloadSize-2), buf[state.HeaderSize+2:])
}

func TestUnmarshalRejectsInvalidBuffers(t *testing.T) {
	valid := encoded(t, []byte("hello"))
	corrupt := func(f func(b []byte) []byte) []byte {
		return f(append([]byte(nil), valid...))
	}

	cases := map[string]struct {
		buf  []byte
		want error
	}{
		"short":           {valid[:100], state.ErrSize},
		"long":            {append(append([]byte(nil), valid...), 0), state.ErrSize},
		"magic":           {corrupt(func(b []byte) []byte { b[0] = 'X'; return b }), state.ErrMagic},
		"version":         {corrupt(func(b []byte) []byte { b[4] = 9; return b }), state.ErrVersion},
		"length":          {corrupt(func(b []byte) []byte { b[6], b[7] = 0xff, 0xff; return b }), state.ErrLength},
		"length in range": {corrupt(func(b []byte) []byte { b[6] = 3; return b }), state.ErrChecksum},
		"checksum":        {corrupt(func(b []byte) []byte { b[state.HeaderSize] ^= 1; return b }), state.ErrChecksum},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			var s state.SavedState
			require.NoError(t, s.SetPayload([]byte("keep")))

			err := s.UnmarshalBinary(c.buf)
			var fe *state.FormatError
			require.True(t, errors.As(err, &fe))
			assert.True(t, errors.Is(err, c.want))
			assert.Equal(t, []byte("keep"), s.Payload())
		})
	}
}
