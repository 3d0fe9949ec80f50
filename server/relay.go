package server

import (
	"net/http"

	"github.com/viant/mcpgate/codec"
)

// handleRelay serves a JSON-RPC call scoped to a streaming session. The answer
// is plain JSON on this response, never an SSE frame. Unknown tokens are only
// logged unless strict sessions are enabled.
func (s *Server) handleRelay(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get(sessionIDParam)
	_, ok, err := s.sessions.Get(r.Context(), token)
	switch {
	case err != nil && s.strictSessions:
		s.logger.Error("relay rejected, session lookup failed", "session", token, "err", err)
		s.rejectRelay(w, http.StatusServiceUnavailable, &codec.Error{Code: codec.InternalError, Message: "Internal error: session lookup failed"})
		return
	case err != nil:
		s.logger.Warn("session lookup failed", "session", token, "err", err)
	case !ok && s.strictSessions:
		s.logger.Warn("relay rejected for unknown session", "session", token)
		s.rejectRelay(w, http.StatusNotFound, &codec.Error{Code: codec.InvalidRequest, Message: "Invalid Request: unknown session"})
		return
	case !ok:
		s.logger.Warn("relay for unknown session", "session", token)
	}
	if token != "" {
		r = r.WithContext(WithSessionID(r.Context(), token))
	}
	s.handleSync(w, r, transportRelay)
}

func (s *Server) rejectRelay(w http.ResponseWriter, status int, rpcErr *codec.Error) {
	handler := s.NewHandler(transportRelay)
	s.writeResponse(w, status, handler.setResponse(nil, nil, rpcErr))
}
