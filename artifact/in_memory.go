// Package artifact provides concrete core.ArtifactStore implementations for
// binary payloads produced during trip planning (rendered itineraries,
// exported PDFs, cached provider responses). The interface lives in core;
// pick a backend here at wiring time.
package artifact

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when no artifact exists for a session / id pair.
var ErrNotFound = errors.New("artifact not found")

// InMemoryStore keeps artifacts in a nested map guarded by an RWMutex.
// Bytes are copied on save and retrieval so callers cannot alias internal
// buffers. No retention limits or quotas are enforced.
type InMemoryStore struct {
	mu        sync.RWMutex
	artifacts map[string]map[string][]byte // sessionID -> artifactID -> data
}

// NewInMemoryStore returns an empty in-memory artifact store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{artifacts: make(map[string]map[string][]byte)}
}

// Save stores (or overwrites) the artifact bytes for the given session and id.
func (a *InMemoryStore) Save(sessionID, artifactID string, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.artifacts[sessionID]; !ok {
		a.artifacts[sessionID] = make(map[string][]byte)
	}

	cp := make([]byte, len(data))
	copy(cp, data)

	a.artifacts[sessionID][artifactID] = cp

	return nil
}

// Get returns a copy of the stored artifact bytes or ErrNotFound.
func (a *InMemoryStore) Get(sessionID, artifactID string) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	m, ok := a.artifacts[sessionID]
	if !ok {
		return nil, ErrNotFound
	}

	data, ok := m[artifactID]
	if !ok {
		return nil, ErrNotFound
	}

	cp := make([]byte, len(data))
	copy(cp, data)

	return cp, nil
}

// List returns a snapshot of the artifact ids stored for the session.
func (a *InMemoryStore) List(sessionID string) ([]string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	m, ok := a.artifacts[sessionID]
	if !ok {
		return []string{}, nil
	}

	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}

	return ids, nil
}

// Delete removes the artifact if present or returns ErrNotFound.
func (a *InMemoryStore) Delete(sessionID, artifactID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	m, ok := a.artifacts[sessionID]
	if !ok {
		return ErrNotFound
	}

	if _, ok := m[artifactID]; !ok {
		return ErrNotFound
	}

	delete(m, artifactID)

	return nil
}
