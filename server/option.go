package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	mcpschema "github.com/viant/mcp-protocol/schema"
	"github.com/viant/mcpgate/internal/telemetry"
	"github.com/viant/mcpgate/server/session"
	"github.com/viant/mcpgate/tool"
)

// Option is a function that configures the server.
type Option func(s *Server) error

// WithCORS sets the CORS policy; the default allows any origin.
func WithCORS(cors *Cors) Option {
	return func(s *Server) error {
		s.corsConfig = cors
		return nil
	}
}

// WithImplementation sets the server implementation.
func WithImplementation(implementation mcpschema.Implementation) Option {
	return func(s *Server) error {
		s.info = implementation
		return nil
	}
}

// WithInstructions sets instructions returned by initialize.
func WithInstructions(instructions string) Option {
	return func(s *Server) error {
		s.instructions = &instructions
		return nil
	}
}

// WithProtocolVersion sets the version reported when the client does not request one.
func WithProtocolVersion(version string) Option {
	return func(s *Server) error {
		s.protocolVersion = version
		return nil
	}
}

// WithRegistry sets the tool registry.
func WithRegistry(registry *tool.Registry) Option {
	return func(s *Server) error {
		if registry == nil {
			return errors.New("registry was nil")
		}
		s.registry = registry
		return nil
	}
}

// WithSessionStore replaces the in-memory session store.
func WithSessionStore(store session.Store) Option {
	return func(s *Server) error {
		s.sessions = store
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger != nil {
			s.logger = logger
		}
		return nil
	}
}

// WithMetrics enables Prometheus metrics and the /metrics endpoint.
func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(s *Server) error {
		s.metrics = metrics
		return nil
	}
}

// WithToolTimeout bounds every tool handler call; zero disables the bound.
func WithToolTimeout(timeout time.Duration) Option {
	return func(s *Server) error {
		if timeout < 0 {
			return errors.New("tool timeout must not be negative")
		}
		s.toolTimeout = timeout
		return nil
	}
}

// WithHeartbeatInterval sets the SSE heartbeat period.
func WithHeartbeatInterval(interval time.Duration) Option {
	return func(s *Server) error {
		if interval <= 0 {
			return errors.New("heartbeat interval must be positive")
		}
		s.heartbeatInterval = interval
		return nil
	}
}

// WithSessionIdleTTL expires sessions that were not seen for ttl, checking every interval.
func WithSessionIdleTTL(ttl, interval time.Duration) Option {
	return func(s *Server) error {
		s.sessionIdleTTL = ttl
		s.sweepInterval = interval
		return nil
	}
}

// WithStrictSessions makes the relay reject unknown session tokens.
func WithStrictSessions(strict bool) Option {
	return func(s *Server) error {
		s.strictSessions = strict
		return nil
	}
}

// WithAddr sets the default listen address.
func WithAddr(addr string) Option {
	return func(s *Server) error {
		s.addr = addr
		return nil
	}
}

// WithSSEURI sets the streaming path suffix.
func WithSSEURI(uri string) Option {
	return func(s *Server) error {
		s.sseURI = uri
		return nil
	}
}

// WithMessageURI sets the relay path suffix.
func WithMessageURI(uri string) Option {
	return func(s *Server) error {
		s.messageURI = uri
		return nil
	}
}

// WithCustomHTTPHandler mounts an additional handler on the HTTP mux.
func WithCustomHTTPHandler(path string, handler http.HandlerFunc) Option {
	return func(s *Server) error {
		if s.customHTTPHandlers == nil {
			s.customHTTPHandlers = make(map[string]http.HandlerFunc)
		}
		s.customHTTPHandlers[path] = handler
		return nil
	}
}
