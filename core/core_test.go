package core

import (
	"context"
	"maps"

	"github.com/smarttravel/smarttravel/logging"
)

// Shared in-memory fakes for context tests.

type fakeSessionStore struct {
	sessions map[string]*Session
	applied  map[string]map[string]any
}

func (s *fakeSessionStore) Get(id string) (*Session, error) {
	if s.sessions == nil {
		s.sessions = map[string]*Session{}
	}

	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}

	sess := NewSession(id)
	s.sessions[id] = sess

	return sess, nil
}

func (s *fakeSessionStore) Create(id string) (*Session, error) { return s.Get(id) }

func (s *fakeSessionStore) AppendEvent(id string, ev Event) error {
	if sess, ok := s.sessions[id]; ok {
		sess.AddEvent(ev)
	}
	return nil
}

func (s *fakeSessionStore) ApplyDelta(id string, delta map[string]any) error {
	if s.applied == nil {
		s.applied = map[string]map[string]any{}
	}

	cp := map[string]any{}
	maps.Copy(cp, delta)
	s.applied[id] = cp

	if sess, ok := s.sessions[id]; ok {
		sess.ApplyStateDelta(delta)
	}

	return nil
}

type fakeArtifactStore struct{ saved map[string]map[string][]byte }

func (a *fakeArtifactStore) Save(sid, aid string, data []byte) error {
	if a.saved == nil {
		a.saved = map[string]map[string][]byte{}
	}
	if _, ok := a.saved[sid]; !ok {
		a.saved[sid] = map[string][]byte{}
	}
	a.saved[sid][aid] = append([]byte{}, data...)
	return nil
}

func (a *fakeArtifactStore) Get(sid, aid string) ([]byte, error) {
	if m, ok := a.saved[sid]; ok {
		return m[aid], nil
	}
	return nil, nil
}

func (a *fakeArtifactStore) List(sid string) ([]string, error) {
	res := []string{}
	for k := range a.saved[sid] {
		res = append(res, k)
	}
	return res, nil
}

func (a *fakeArtifactStore) Delete(sid, aid string) error { return nil }

type fakeMemoryStore struct{}

func (m *fakeMemoryStore) Get(sessionID string) (map[string]any, error) {
	return map[string]any{}, nil
}

func (m *fakeMemoryStore) Put(sessionID string, delta map[string]any) error { return nil }

func (m *fakeMemoryStore) Search(sid, q string, limit int) ([]SearchResult, error) {
	return []SearchResult{{ID: "m1", Content: "remembered", Score: 0.9, Metadata: map[string]any{"test": true}}}, nil
}

func (m *fakeMemoryStore) Store(sid, content string, metadata map[string]any) error { return nil }

func (m *fakeMemoryStore) Delete(sid, memoryID string) error { return nil }

func newRunContextForTest() (*RunContext, chan Event) {
	emit := make(chan Event, 10)
	resume := make(chan struct{}, 10)

	sessStore := &fakeSessionStore{}
	sess, _ := sessStore.Create("test-session")

	rc := NewRunContext(
		context.Background(), "test-session", "test-run",
		AgentInfo{Name: "TestAgent", Type: "test"},
		Content{Role: "user", Parts: []Part{TextPart{Text: "test input"}}},
		0, emit, resume, sess, sessStore, &fakeArtifactStore{}, &fakeMemoryStore{},
		logging.NoOpLogger{},
	)

	return rc, emit
}
