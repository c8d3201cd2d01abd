// Package session provides concrete core.SessionStore implementations. The
// interface and the Session type live in core so orchestration code depends
// on the contract, not a backend. Additional backends (Redis, Postgres, ...)
// can be added here without touching callers.
package session

import (
	"sync"

	"github.com/smarttravel/smarttravel/core"
)

// InMemoryStore is a volatile SessionStore keeping sessions in a process
// local map. Safe for concurrent use. Returned sessions are clones so callers
// cannot mutate the stored copy behind the store's back.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*core.Session)}
}

// Create creates (or resets) a session with the given id.
func (s *InMemoryStore) Create(sessionID string) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.createLocked(sessionID).Clone(), nil
}

// Get returns a clone of an existing session, creating one lazily when the
// id is unknown.
func (s *InMemoryStore) Get(sessionID string) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[sessionID]; ok {
		return sess.Clone(), nil
	}

	return s.createLocked(sessionID).Clone(), nil
}

// AppendEvent adds an event to the session's history, creating the session
// when needed.
func (s *InMemoryStore) AppendEvent(sessionID string, ev core.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = s.createLocked(sessionID)
	}

	sess.AddEvent(ev)

	return nil
}

// ApplyDelta merges a key/value delta into the session state.
func (s *InMemoryStore) ApplyDelta(sessionID string, delta map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = s.createLocked(sessionID)
	}

	sess.ApplyStateDelta(delta)

	return nil
}

// createLocked allocates and stores a new session; caller holds the write
// lock.
func (s *InMemoryStore) createLocked(sessionID string) *core.Session {
	sess := core.NewSession(sessionID)
	s.sessions[sessionID] = sess

	return sess
}
