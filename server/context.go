package server

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type sessionKey struct{}

// activeCall is an in-flight request that Shutdown can cancel.
type activeCall struct {
	context.CancelFunc
	method  string
	started time.Time
}

// track registers a cancellable context for the duration of one request.
func (s *Server) track(parent context.Context, method string) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	id := uuid.NewString()
	s.activeCalls.Put(id, &activeCall{CancelFunc: cancel, method: method, started: s.now()})
	return ctx, func() {
		s.activeCalls.Delete(id)
		cancel()
	}
}

// WithSessionID returns ctx carrying the streaming session token of the caller.
func WithSessionID(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, sessionKey{}, token)
}

// SessionID returns the session token relayed with the request, if any.
func SessionID(ctx context.Context) string {
	token, _ := ctx.Value(sessionKey{}).(string)
	return token
}
