package session

import (
	"context"
	"sync"
	"time"

	domainauth "staybook/internal/domain/auth"
	domainuser "staybook/internal/domain/user"
)

// MemoryStore keeps sessions in process memory. Expired entries are dropped
// lazily on read.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[domainauth.Token]*domainauth.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[domainauth.Token]*domainauth.Session)}
}

func (s *MemoryStore) Save(_ context.Context, session *domainauth.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	copied.Roles = append([]domainuser.Role(nil), session.Roles...)
	s.sessions[session.Token] = &copied
	return nil
}

func (s *MemoryStore) Get(_ context.Context, token domainauth.Token) (*domainauth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil, domainauth.ErrSessionNotFound
	}
	if session.Expired(time.Now()) {
		delete(s.sessions, token)
		return nil, domainauth.ErrSessionNotFound
	}
	copied := *session
	copied.Roles = append([]domainuser.Role(nil), session.Roles...)
	return &copied, nil
}

func (s *MemoryStore) Delete(_ context.Context, token domainauth.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *MemoryStore) DeleteByUser(_ context.Context, userID domainuser.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, token)
		}
	}
	return nil
}

var _ domainauth.SessionStore = (*MemoryStore)(nil)
