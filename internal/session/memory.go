package session

import (
	"context"
	"sync"
	"time"

	"github.com/chillgc/tierlist/internal/apperror"
)

// MemoryStore is an in-memory Store used by tests and single-process
// development runs. Production uses the sqlite-backed store so sessions
// survive restarts.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	states   map[string]string
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		states:   make(map[string]string),
	}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, apperror.NotFound("session", id)
	}
	// Return a copy so callers can't mutate store state directly.
	copied := *sess
	return &copied, nil
}

func (m *MemoryStore) Create(_ context.Context, sess *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	sess.CreatedAt = now
	sess.UpdatedAt = now

	stored := *sess
	m.sessions[sess.ID] = &stored
	return nil
}

func (m *MemoryStore) SetUser(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		return apperror.NotFound("session", id)
	}
	sess.UserID = userID
	sess.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	delete(m.states, id)
	return nil
}

func (m *MemoryStore) PutState(_ context.Context, id, state string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return apperror.NotFound("session", id)
	}
	m.states[id] = state
	return nil
}

func (m *MemoryStore) ConsumeState(_ context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.states[id]
	if !ok {
		return "", apperror.NotFound("login state", id)
	}
	delete(m.states, id)
	return state, nil
}
