/*
Package state implements the saved-state blob an application hands to the
platform when it is asked to save its state, and gets back on the next launch.

The encoded form has a fixed size of Size bytes, little-endian, without
padding:

	offset  size  field
	     0     4  magic "NAST"
	     4     2  version
	     6     2  payload length (0..PayloadSize)
	     8     4  CRC-32 (IEEE) of bytes 0..7 followed by 12..Size-1
	    12   500  payload, zero-filled after payload length

Buffers that do not match this layout are rejected with a *FormatError instead
of being copied blindly.
*/
package state

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
)

const (
	// Size is the size of an encoded SavedState.
	Size = 512
	// HeaderSize is the size of the header preceding the payload.
	HeaderSize = 12
	// PayloadSize is the capacity of the payload.
	PayloadSize = Size - HeaderSize
	// Version is the layout version written by this package.
	Version uint16 = 1
)

var magic = [4]byte{'N', 'A', 'S', 'T'}

// Errors wrapped by FormatError.
var (
	ErrSize     = errors.New("wrong size")
	ErrMagic    = errors.New("bad magic")
	ErrVersion  = errors.New("unsupported version")
	ErrLength   = errors.New("payload length out of range")
	ErrChecksum = errors.New("checksum mismatch")
)

// FormatError describes a buffer that is not a valid saved state.
type FormatError struct {
	Reason error
	Detail string
}

func (fe *FormatError) Error() string {
	if fe.Detail == "" {
		return "invalid saved state: " + fe.Reason.Error()
	}
	return "invalid saved state: " + fe.Reason.Error() + " (" + fe.Detail + ")"
}

// Unwrap returns the reason.
func (fe *FormatError) Unwrap() error {
	return fe.Reason
}

// SavedState is the application state that survives a destroy/recreate cycle
// of the process. The zero value is an empty state.
type SavedState struct {
	length  uint16
	payload [PayloadSize]byte
}

// Payload returns the used part of the payload. The slice aliases the state.
func (s *SavedState) Payload() []byte {
	return s.payload[:s.length]
}

// SetPayload replaces the payload. It fails if p exceeds PayloadSize.
func (s *SavedState) SetPayload(p []byte) error {
	if len(p) > PayloadSize {
		return fmt.Errorf("payload of %d bytes exceeds %d", len(p), PayloadSize)
	}
	s.payload = [PayloadSize]byte{}
	copy(s.payload[:], p)
	s.length = uint16(len(p))
	return nil
}

// Reset empties the state.
func (s *SavedState) Reset() {
	*s = SavedState{}
}

// checksum covers the header fields and the payload, skipping the checksum
// field itself.
func checksum(buf []byte) uint32 {
	h := crc32.NewIEEE()
	h.Write(buf[:8])
	h.Write(buf[HeaderSize:])
	return h.Sum32()
}

// MarshalBinary encodes the state into a new buffer of exactly Size bytes.
func (s *SavedState) MarshalBinary() ([]byte, error) {
	buf := make([]byte, Size)
	copy(buf[0:4], magic[:])
	binary.LittleEndian.PutUint16(buf[4:6], Version)
	binary.LittleEndian.PutUint16(buf[6:8], s.length)
	copy(buf[HeaderSize:], s.payload[:])
	binary.LittleEndian.PutUint32(buf[8:12], checksum(buf))
	return buf, nil
}

// UnmarshalBinary decodes buf. On error the state is left unchanged.
func (s *SavedState) UnmarshalBinary(buf []byte) error {
	if len(buf) != Size {
		return &FormatError{Reason: ErrSize,
			Detail: fmt.Sprintf("%d bytes, want %d", len(buf), Size)}
	}
	if buf[0] != magic[0] || buf[1] != magic[1] || buf[2] != magic[2] ||
		buf[3] != magic[3] {
		return &FormatError{Reason: ErrMagic}
	}
	if v := binary.LittleEndian.Uint16(buf[4:6]); v != Version {
		return &FormatError{Reason: ErrVersion, Detail: fmt.Sprintf("version %d", v)}
	}
	length := binary.LittleEndian.Uint16(buf[6:8])
	if length > PayloadSize {
		return &FormatError{Reason: ErrLength, Detail: fmt.Sprintf("%d bytes", length)}
	}
	if binary.LittleEndian.Uint32(buf[8:12]) != checksum(buf) {
		return &FormatError{Reason: ErrChecksum}
	}
	s.length = length
	copy(s.payload[:], buf[HeaderSize:])
	return nil
}
