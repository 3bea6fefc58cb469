package game

import "sync"

// Registry maps player identity to their active session and enforces at most
// one active game per player. It is an explicitly owned instance passed to
// whoever handles incoming actions; there is no package-level registry.
type Registry struct {
	sessions map[int64]*Session
	mu       sync.Mutex
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[int64]*Session),
	}
}

// Register maps a player to a session. Fails with ErrAlreadyInGame when the
// player already has an entry. The existence check and the insert share one
// critical section.
func (r *Registry) Register(playerID int64, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[playerID]; ok {
		return ErrAlreadyInGame
	}
	r.sessions[playerID] = s
	return nil
}

// Unregister removes a player's entry. Removing a missing entry is not an
// error; callers check existence first.
func (r *Registry) Unregister(playerID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, playerID)
}

// Lookup returns the player's active session, or nil and false.
func (r *Registry) Lookup(playerID int64) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[playerID]
	return s, ok
}

// Release removes the player's entry only if it still maps to s. Used by
// event-driven cleanup so a newer session is never evicted by a stale one.
func (r *Registry) Release(playerID int64, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.sessions[playerID]; ok && current == s {
		delete(r.sessions, playerID)
	}
}

// Count returns the number of active sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
