package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/viant/mcpgate/codec"
)

type httpServer struct {
	server             *http.Server
	addr               string
	sseURI             string
	messageURI         string
	registerURI        string
	corsConfig         *Cors
	corsHandler        Middleware
	customHTTPHandlers map[string]http.HandlerFunc
}

// HTTP creates an HTTP server exposing the sync, streaming, relay and discovery endpoints.
func (s *Server) HTTP(_ context.Context, addr string) *http.Server {
	if addr == "" {
		addr = s.addr
	}
	mux := http.NewServeMux()
	for path, handler := range s.customHTTPHandlers {
		mux.Handle(path, handler)
	}
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}
	middlewareHandlers := []Middleware{
		requestLoggingMiddleware(s.logger),
		s.corsHandler,
		originValidationMiddleware(s.corsConfig.AllowOrigins),
		protocolVersionMiddleware(s.protocolVersion),
	}
	mux.Handle("/", ChainMiddlewareHandlers(s, middlewareHandlers...))
	s.startSweeper()
	s.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.server
}

// ServeHTTP routes by method and path suffix so the gateway can be mounted under any prefix.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case r.Method == http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
	case strings.HasSuffix(path, s.registerURI) && (r.Method == http.MethodGet || r.Method == http.MethodPost):
		s.handleRegister(w, r)
	case r.Method == http.MethodGet && s.isStreamRequest(r, path):
		s.handleStream(w, r, path)
	case r.Method == http.MethodPost && strings.HasSuffix(path, s.messageURI):
		s.handleRelay(w, r)
	case r.Method == http.MethodGet:
		s.handleInfo(w, r)
	case r.Method == http.MethodPost:
		s.handleSync(w, r, transportHTTP)
	default:
		w.Header().Set("Allow", "GET, POST, OPTIONS")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) isStreamRequest(r *http.Request, path string) bool {
	return strings.HasSuffix(path, s.sseURI) || strings.Contains(r.Header.Get("Accept"), "text/event-stream")
}

// handleSync decodes one envelope, dispatches it and writes exactly one JSON object.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request, transport string) {
	handler := s.NewHandler(transport)
	body, err := io.ReadAll(io.LimitReader(r.Body, s.maxBodySize+1))
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, handler.setResponse(nil, nil, &codec.Error{Code: codec.ParseError, Message: "Parse error: " + err.Error()}))
		return
	}
	if int64(len(body)) > s.maxBodySize {
		s.writeResponse(w, http.StatusRequestEntityTooLarge, handler.setResponse(nil, nil, &codec.Error{Code: codec.InvalidRequest, Message: "Invalid Request: body too large"}))
		return
	}
	request, rpcErr := codec.Decode(body)
	if rpcErr == nil {
		rpcErr = codec.Validate(request)
	}
	if rpcErr != nil {
		s.writeResponse(w, http.StatusBadRequest, handler.setResponse(codec.ResponseID(request), nil, rpcErr))
		return
	}
	s.writeResponse(w, http.StatusOK, handler.Serve(r.Context(), request))
}

// writeResponse writes a sized body so that the response is never chunked.
func (s *Server) writeResponse(w http.ResponseWriter, status int, response interface{}) {
	data, err := json.Marshal(response)
	if err != nil {
		s.logger.Error("failed to encode response", "err", err)
		data, _ = codec.Marshal(codec.EncodeError(nil, codec.InternalError, "failed to encode response", nil))
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(status)
	if _, err = w.Write(data); err != nil {
		s.logger.Debug("failed to write response", "err", err)
	}
}
