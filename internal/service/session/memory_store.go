package session

import (
	"context"
	"encoding/json"
	"sync"

	"ninernav/domain"
)

type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

// NewMemorySessionStore is used when no Redis endpoint is configured. Sessions are
// stored encoded so callers never share a *Session with the store.
func NewMemorySessionStore() domain.SessionStore {
	return &memorySessionStore{
		sessions: make(map[string][]byte),
	}
}

func (s *memorySessionStore) Load(_ context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	data, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return &domain.Session{}, nil
	}
	return decode(id, data), nil
}

func (s *memorySessionStore) Save(_ context.Context, id string, sess *domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sessions[id] = data
	s.mu.Unlock()
	return nil
}

func (s *memorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}
