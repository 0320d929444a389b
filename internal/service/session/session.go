package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"ninernav/domain"
)

type sessionService struct {
	store domain.SessionStore
	locks *keyedMutex
}

func NewSessionService(store domain.SessionStore) domain.SessionService {
	return &sessionService{
		store: store,
		locks: newKeyedMutex(),
	}
}

func (s *sessionService) Get(ctx context.Context, id string) (*domain.Session, error) {
	return s.store.Load(ctx, id)
}

func (s *sessionService) Update(ctx context.Context, id string, fn func(sess *domain.Session) error) (*domain.Session, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	sess, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, id, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *sessionService) Rotate(ctx context.Context, id string) (string, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	sess, err := s.store.Load(ctx, id)
	if err != nil {
		return "", err
	}
	newID := uuid.New().String()
	if err := s.store.Save(ctx, newID, sess); err != nil {
		return "", err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return "", err
	}
	return newID, nil
}

// keyedMutex hands out one mutex per session id and drops it once nobody holds or
// waits for it.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
