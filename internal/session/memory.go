package session

import (
	"context"
	"sync"
	"time"

	"crimetracker/internal/model"
)

// memoryStore keeps sessions in a process-local map. Sessions are lost on
// restart; intended for local and demo use only.
type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]model.Session
}

// NewMemoryStore builds an in-process session store.
func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[string]model.Session)}
}

func (s *memoryStore) Create(_ context.Context, userID uint, ttl time.Duration) (*model.Session, error) {
	now := time.Now()
	sess := model.Session{
		Token:     newToken(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()

	return &sess, nil
}

func (s *memoryStore) Get(_ context.Context, token string) (*model.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if time.Now().After(sess.ExpiresAt) {
		// Expired entries are reaped lazily.
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (s *memoryStore) Touch(_ context.Context, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return ErrNotFound
	}
	sess.ExpiresAt = time.Now().Add(ttl)
	s.sessions[token] = sess
	return nil
}

func (s *memoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}
