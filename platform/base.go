package platform

import (
	"sync"

	"go.uber.org/zap"
)

// Base implements the backend-independent part of Glue: handler registration,
// the saved-state buffer, the destroy flag and the queue of pending wake-ups
// and commands. Backends embed it and add Window, Poll and RequestDestroy.
type Base struct {
	self    Glue
	log     *zap.Logger
	store   StateStore
	handle  Handle
	onCmd   CommandFunc
	onInput InputFunc
	after   func(Command)
	saved   []byte

	mu               sync.Mutex
	destroyRequested bool
	woken            []Ident
	commands         []Command
}

// InitBase must be called by the backend before use. self is the backend
// itself, passed on to handlers. If store is not nil, the saved state is
// loaded from it.
func (b *Base) InitBase(self Glue, store StateStore, log *zap.Logger) {
	b.self = self
	b.store = store
	b.log = log
	if store == nil {
		return
	}
	saved, err := store.Load()
	if err != nil {
		log.Warn("unable to load saved state", zap.Error(err))
		return
	}
	if len(saved) > 0 {
		b.saved = saved
		log.Info("found saved state", zap.Int("size", len(saved)))
	}
}

// AfterDispatch registers fn to be called after each command has been
// handled. Backends use it to apply state changes that must follow the
// application's handling, such as detaching the window after CmdTermWindow.
func (b *Base) AfterDispatch(fn func(Command)) {
	b.after = fn
}

// SetHandlers implements Glue.
func (b *Base) SetHandlers(h Handle, onCmd CommandFunc, onInput InputFunc) {
	b.handle = h
	b.onCmd = onCmd
	b.onInput = onInput
}

// UserData implements Glue.
func (b *Base) UserData() Handle {
	return b.handle
}

// SavedState implements Glue.
func (b *Base) SavedState() []byte {
	return b.saved
}

// SetSavedState implements Glue. The buffer is written to the state store if
// there is one.
func (b *Base) SetSavedState(buf []byte) {
	b.saved = buf
	if b.store == nil {
		return
	}
	if err := b.store.Store(buf); err != nil {
		b.log.Error("unable to write saved state", zap.Error(err))
	}
}

// Looper implements Glue.
func (b *Base) Looper() Looper {
	return b
}

// Wake implements Looper.
func (b *Base) Wake(ident Ident) {
	b.mu.Lock()
	for _, w := range b.woken {
		if w == ident {
			b.mu.Unlock()
			return
		}
	}
	b.woken = append(b.woken, ident)
	b.mu.Unlock()
}

// DestroyRequested implements Glue.
func (b *Base) DestroyRequested() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.destroyRequested
}

// Enqueue queues a command for delivery by the next Poll.
func (b *Base) Enqueue(cmd Command) {
	b.mu.Lock()
	b.commands = append(b.commands, cmd)
	b.mu.Unlock()
}

// Pending delivers the first queued wake-up or command, if any. Backends call
// it at the start of Poll and after processing a native event.
func (b *Base) Pending() (Ident, bool) {
	b.mu.Lock()
	if len(b.woken) > 0 {
		ident := b.woken[0]
		b.woken = b.woken[1:]
		b.mu.Unlock()
		return ident, true
	}
	if len(b.commands) > 0 {
		cmd := b.commands[0]
		b.commands = b.commands[1:]
		b.mu.Unlock()
		b.DispatchCommand(cmd)
		return IdentMain, true
	}
	b.mu.Unlock()
	return 0, false
}

// DispatchCommand delivers cmd to the registered handler.
func (b *Base) DispatchCommand(cmd Command) {
	if cmd == CmdDestroy {
		b.mu.Lock()
		b.destroyRequested = true
		b.mu.Unlock()
	}
	b.log.Debug("command", zap.Stringer("cmd", cmd))
	if b.onCmd != nil {
		b.onCmd(b.self, cmd)
	}
	if b.after != nil {
		b.after(cmd)
	}
}

// DispatchInput delivers ev to the registered handler and reports whether it
// was consumed.
func (b *Base) DispatchInput(ev *InputEvent) bool {
	if b.onInput == nil {
		return false
	}
	return b.onInput(b.self, ev)
}
