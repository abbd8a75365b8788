package auth

import (
	"sync"

	"github.com/4PPL8/wahabstore/internal/domain"
)

// PendingStore holds outstanding verification challenges in process memory.
// This is the volatile scope: a restart drops every pending login while the
// durable user records survive, which is exactly the intended split.
type PendingStore struct {
	mu      sync.RWMutex
	pending map[string]domain.PendingAuth // sessionID -> challenge
}

func NewPendingStore() *PendingStore {
	return &PendingStore{
		pending: make(map[string]domain.PendingAuth),
	}
}

func (s *PendingStore) Get(sessionID string) (domain.PendingAuth, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pending[sessionID]
	return p, ok
}

func (s *PendingStore) Put(sessionID string, p domain.PendingAuth) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[sessionID] = p
}

func (s *PendingStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, sessionID)
}
