package session

import (
	"context"
	"time"
)

// Session is the server side record of one streaming connection.
type Session struct {
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
}

// New creates a session stamped with now.
func New(token string, now time.Time) *Session {
	return &Session{Token: token, CreatedAt: now, LastSeen: now}
}

// Store is a concurrent-safe registry of sessions keyed by token.
type Store interface {
	Put(ctx context.Context, session *Session) error
	Get(ctx context.Context, token string) (*Session, bool, error)
	Delete(ctx context.Context, token string) (bool, error)
	// Touch records activity on a live session.
	Touch(ctx context.Context, token string, at time.Time) error
	Len(ctx context.Context) (int, error)
}

// Expirer is implemented by stores that need an explicit sweep to drop idle sessions.
type Expirer interface {
	Expire(ctx context.Context, idleBefore time.Time) ([]string, error)
}
