package sensor

import (
	"sync"
	"time"

	"github.com/QuestScreen/nativeapp/platform"
)

type stream struct {
	interval time.Duration
	last     time.Duration
	seen     bool
}

// Buffer is a bounded sample queue for backends that receive samples as
// events. It keeps only samples of enabled sensor types, drops samples that
// arrive faster than the requested rate and drops the oldest sample when
// full. Every accepted sample wakes the looper.
type Buffer struct {
	looper platform.Looper
	ident  platform.Ident

	mu      sync.Mutex
	events  []Event
	head    int
	count   int
	streams map[Type]*stream
	dropped int
}

// NewBuffer creates a buffer holding up to capacity samples. A capacity
// below 1 is raised to 1.
func NewBuffer(l platform.Looper, ident platform.Ident, capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{looper: l, ident: ident, events: make([]Event, capacity),
		streams: make(map[Type]*stream)}
}

// Enable starts accepting samples of type t.
func (b *Buffer) Enable(t Type) {
	b.mu.Lock()
	if _, ok := b.streams[t]; !ok {
		b.streams[t] = &stream{}
	}
	b.mu.Unlock()
}

// Disable stops accepting samples of type t and discards pending ones.
func (b *Buffer) Disable(t Type) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.streams, t)
	kept := 0
	for i := 0; i < b.count; i++ {
		ev := b.events[(b.head+i)%len(b.events)]
		if ev.Type != t {
			b.events[(b.head+kept)%len(b.events)] = ev
			kept++
		}
	}
	b.count = kept
}

// SetInterval sets the minimum distance between accepted samples of type t.
func (b *Buffer) SetInterval(t Type, interval time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.streams[t]
	if !ok {
		return ErrNotEnabled
	}
	s.interval = interval
	return nil
}

// Push offers a sample and reports whether it was accepted.
func (b *Buffer) Push(ev Event) bool {
	b.mu.Lock()
	s, ok := b.streams[ev.Type]
	if !ok {
		b.mu.Unlock()
		return false
	}
	if s.seen && ev.Timestamp-s.last < s.interval {
		b.mu.Unlock()
		return false
	}
	s.last, s.seen = ev.Timestamp, true
	if b.count == len(b.events) {
		b.head = (b.head + 1) % len(b.events)
		b.count--
		b.dropped++
	}
	b.events[(b.head+b.count)%len(b.events)] = ev
	b.count++
	b.mu.Unlock()
	b.looper.Wake(b.ident)
	return true
}

// Read moves up to len(buf) samples into buf, oldest first.
func (b *Buffer) Read(buf []Event) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for n < len(buf) && b.count > 0 {
		buf[n] = b.events[b.head]
		b.head = (b.head + 1) % len(b.events)
		b.count--
		n++
	}
	return n
}

// Len returns the number of pending samples.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Dropped returns the number of samples discarded because the buffer was
// full.
func (b *Buffer) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}
