package terminal

import (
	"fmt"
	"sort"
	"sync"

	"github.com/GriffinCanCode/termhost/internal/shared/types"
)

// Registry maps session ids to live sessions under a single lock.
//
// Each call is atomic; a sequence of calls is not. Callers driving one id
// from several goroutines must serialize themselves.
type Registry struct {
	mu       sync.Mutex
	sessions map[types.SessionID]*Session
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[types.SessionID]*Session),
	}
}

// Insert adds a session. It fails if the id is already present.
func (r *Registry) Insert(id types.SessionID, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[id]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateSession, id)
	}
	r.sessions[id] = s
	return nil
}

// Lookup returns the session registered under id
func (r *Registry) Lookup(id types.SessionID) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrSessionNotFound, id)
	}
	return s, nil
}

// WithMut runs fn on the session while holding the registry lock.
// fn must not block on terminal I/O.
func (r *Registry) WithMut(id types.SessionID, fn func(*Session) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrSessionNotFound, id)
	}
	return fn(s)
}

// Remove deletes the session and hands it back to the caller for teardown
func (r *Registry) Remove(id types.SessionID) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrSessionNotFound, id)
	}
	delete(r.sessions, id)
	return s, nil
}

// Contains reports whether id is present
func (r *Registry) Contains(id types.SessionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	return ok
}

// Len returns the number of sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Snapshot returns the info of every session ordered by id
func (r *Registry) Snapshot() []types.SessionInfo {
	r.mu.Lock()
	infos := make([]types.SessionInfo, 0, len(r.sessions))
	for _, s := range r.sessions {
		infos = append(infos, s.info())
	}
	r.mu.Unlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// Drain removes and returns every session
func (r *Registry) Drain() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	drained := make([]*Session, 0, len(r.sessions))
	for id, s := range r.sessions {
		drained = append(drained, s)
		delete(r.sessions, id)
	}
	return drained
}
