package combat

import (
	"log/slog"

	"github.com/fablekeeper/combat-engine/internal/entities"
)

// Listener receives the full combat state synchronously after every
// successful mutating operation. The state is a snapshot; listeners must
// treat it as read-only.
type Listener func(state *entities.CombatState)

type listenerHandle struct {
	id int
	fn Listener
}

// Subscribe registers a listener. Listeners are invoked in registration
// order, in-line with the mutating call, before it returns. The returned
// func unregisters the listener and is safe to call more than once.
func (s *store) Subscribe(listener Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextListenerID++
	handle := &listenerHandle{id: s.nextListenerID, fn: listener}
	s.listeners = append(s.listeners, handle)

	id := handle.id
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		for i, h := range s.listeners {
			if h.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// snapshotLocked captures the broadcast payload and the listener list while
// the lock is held. Listeners are invoked after the lock is released so a
// listener may call back into the store.
func (s *store) snapshotLocked() (*entities.CombatState, []*listenerHandle) {
	handles := make([]*listenerHandle, len(s.listeners))
	copy(handles, s.listeners)
	return s.stateLocked().DeepCopy(), handles
}

// notify invokes every listener with the snapshot. A panicking listener is
// logged and skipped; it never prevents later listeners from running or
// corrupts engine state.
func (s *store) notify(state *entities.CombatState, handles []*listenerHandle) {
	for _, h := range handles {
		func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("combat listener panicked", "error", r)
				}
			}()
			h.fn(state)
		}()
	}
}
