package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/viant/mcpgate/server/session"
)

const (
	closeReasonClient   = "client closed"
	closeReasonWrite    = "write failed"
	closeReasonShutdown = "shutdown"

	sessionIDParam = "sessionId"
	heartbeatFrame = ": heartbeat\n\n"
)

// handleStream opens a session, announces the relay endpoint and keeps the
// connection alive with heartbeats until the client goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request, path string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	token := uuid.NewString()
	if err := s.sessions.Put(r.Context(), session.New(token, s.now())); err != nil {
		s.logger.Error("failed to open session", "err", err)
		http.Error(w, "failed to open session", http.StatusServiceUnavailable)
		return
	}
	s.metrics.SessionOpened()
	s.logger.Info("session opened", "session", token, "remote", r.RemoteAddr)

	reason := closeReasonClient
	defer func() {
		s.closeSession(token, reason)
	}()

	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprintf(w, "event: endpoint\ndata: %s\n\n", s.endpointURL(path, token)); err != nil {
		reason = closeReasonWrite
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(s.heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.done:
			reason = closeReasonShutdown
			return
		case <-ticker.C:
			if _, err := io.WriteString(w, heartbeatFrame); err != nil {
				reason = closeReasonWrite
				return
			}
			flusher.Flush()
			if err := s.sessions.Touch(r.Context(), token, s.now()); err != nil {
				s.logger.Warn("failed to refresh session", "session", token, "err", err)
			}
		}
	}
}

// closeSession removes the session; the request context is already done here.
func (s *Server) closeSession(token, reason string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	deleted, err := s.sessions.Delete(ctx, token)
	if err != nil {
		s.logger.Error("failed to remove session", "session", token, "err", err)
		return
	}
	if deleted {
		s.metrics.SessionClosed()
	}
	s.logger.Info("session closed", "session", token, "reason", reason)
}

// endpointURL returns the relay URL relative to the host, preserving any mount prefix.
func (s *Server) endpointURL(streamPath, token string) string {
	prefix := strings.TrimSuffix(streamPath, s.sseURI)
	return prefix + s.messageURI + "?" + sessionIDParam + "=" + url.QueryEscape(token)
}
