package session

import (
	"context"
	"time"

	"github.com/viant/mcpgate/internal/collection"
)

// MemoryStore is an in-process Store; sessions do not survive a restart.
type MemoryStore struct {
	sessions *collection.SyncMap[string, Session]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: collection.NewSyncMap[string, Session]()}
}

func (s *MemoryStore) Put(_ context.Context, session *Session) error {
	s.sessions.Put(session.Token, *session)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (*Session, bool, error) {
	session, ok := s.sessions.Get(token)
	if !ok {
		return nil, false, nil
	}
	return &session, true, nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) (bool, error) {
	return s.sessions.Delete(token), nil
}

func (s *MemoryStore) Touch(_ context.Context, token string, at time.Time) error {
	s.sessions.Update(token, func(session Session) Session {
		session.LastSeen = at
		return session
	})
	return nil
}

func (s *MemoryStore) Len(_ context.Context) (int, error) {
	return s.sessions.Len(), nil
}

// Expire removes sessions not seen since idleBefore and returns their tokens.
func (s *MemoryStore) Expire(_ context.Context, idleBefore time.Time) ([]string, error) {
	var expired []string
	idle := func(session Session) bool { return session.LastSeen.Before(idleBefore) }
	s.sessions.Range(func(token string, session Session) bool {
		if idle(session) && s.sessions.DeleteIf(token, idle) {
			expired = append(expired, token)
		}
		return true
	})
	return expired, nil
}
