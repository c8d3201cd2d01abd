// Package memory provides concrete core.MemoryStore implementations for
// long-lived traveler context: preferences, past trips, recall snippets. The
// interface and SearchResult type live in core; select a backend at wiring
// time.
package memory

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/smarttravel/smarttravel/core"
)

// ErrNotFound is returned when a stored memory id does not exist.
var ErrNotFound = errors.New("memory not found")

// storedMemory is the internal representation persisted by InMemoryStore.
type storedMemory struct {
	id       string
	content  string
	metadata map[string]any
}

// InMemoryStore is a process-local MemoryStore offering session scoped
// key/value memory (Get / Put) and append-only stored memories with substring
// Search. Every hit scores 1.0; swap in a semantic index for real retrieval
// quality.
type InMemoryStore struct {
	mu      sync.RWMutex
	memory  map[string]map[string]any          // sessionID -> key -> value
	storage map[string]map[string]storedMemory // sessionID -> memoryID -> memory
}

// NewInMemoryStore creates an empty in-memory memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		memory:  make(map[string]map[string]any),
		storage: make(map[string]map[string]storedMemory),
	}
}

// Get returns a shallow copy of the key/value memory map for the session.
func (m *InMemoryStore) Get(sessionID string) (map[string]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessionMemory, ok := m.memory[sessionID]
	if !ok {
		return map[string]any{}, nil
	}

	result := make(map[string]any, len(sessionMemory))
	for k, v := range sessionMemory {
		result[k] = v
	}

	return result, nil
}

// Put merges the provided delta into the session's key/value memory.
func (m *InMemoryStore) Put(sessionID string, delta map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.memory[sessionID]; !ok {
		m.memory[sessionID] = make(map[string]any)
	}

	for k, v := range delta {
		m.memory[sessionID][k] = v
	}

	return nil
}

// Search performs a case-insensitive substring match over stored memories.
// Results are returned in unspecified order up to limit.
func (m *InMemoryStore) Search(sessionID string, query string, limit int) ([]core.SearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessionStorage, ok := m.storage[sessionID]
	if !ok {
		return []core.SearchResult{}, nil
	}

	loweredQuery := strings.ToLower(query)

	results := make([]core.SearchResult, 0, limit)

	for _, stored := range sessionStorage {
		if limit > 0 && len(results) >= limit {
			break
		}

		if query != "" && !strings.Contains(strings.ToLower(stored.content), loweredQuery) {
			continue
		}

		md := make(map[string]any, len(stored.metadata))
		for k, v := range stored.metadata {
			md[k] = v
		}

		results = append(results, core.SearchResult{
			ID:       stored.id,
			Content:  stored.content,
			Score:    1.0,
			Metadata: md,
		})
	}

	return results, nil
}

// Store appends a new stored memory with a simple incremental id.
func (m *InMemoryStore) Store(sessionID string, content string, metadata map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.storage[sessionID]; !ok {
		m.storage[sessionID] = make(map[string]storedMemory)
	}

	memoryID := fmt.Sprintf("mem_%d", len(m.storage[sessionID]))
	m.storage[sessionID][memoryID] = storedMemory{id: memoryID, content: content, metadata: metadata}

	return nil
}

// Delete removes a stored memory entry by id.
func (m *InMemoryStore) Delete(sessionID string, memoryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessionStorage, ok := m.storage[sessionID]
	if !ok {
		return ErrNotFound
	}

	if _, ok := sessionStorage[memoryID]; !ok {
		return ErrNotFound
	}

	delete(sessionStorage, memoryID)

	return nil
}
