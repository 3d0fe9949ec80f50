package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	mcpschema "github.com/viant/mcp-protocol/schema"
	"github.com/viant/mcpgate/internal/collection"
	"github.com/viant/mcpgate/internal/telemetry"
	"github.com/viant/mcpgate/server/session"
	"github.com/viant/mcpgate/tool"
)

const (
	defaultAddr              = ":5000"
	defaultSSEURI            = "/sse"
	defaultMessageURI        = "/messages"
	defaultRegisterURI       = "/register"
	defaultHeartbeatInterval = 30 * time.Second
	defaultMaxBodySize       = 4 << 20
)

// Server routes JSON-RPC envelopes to registered tools over HTTP, SSE and stdio.
type Server struct {
	activeCalls     *collection.SyncMap[string, *activeCall]
	info            mcpschema.Implementation
	instructions    *string
	protocolVersion string
	registry        *tool.Registry
	sessions        session.Store
	logger          *slog.Logger
	metrics         *telemetry.Metrics

	toolTimeout       time.Duration
	heartbeatInterval time.Duration
	sessionIdleTTL    time.Duration
	sweepInterval     time.Duration
	strictSessions    bool
	maxBodySize       int64
	now               func() time.Time

	done         chan struct{}
	shutdownOnce sync.Once
	sweepOnce    sync.Once
	stopSweep    context.CancelFunc

	httpServer
}

// Registry returns the tool registry.
func (s *Server) Registry() *tool.Registry {
	return s.registry
}

// Sessions returns the session store.
func (s *Server) Sessions() session.Store {
	return s.sessions
}

// Shutdown wakes every streaming connection, cancels in-flight tool calls and
// stops the HTTP server if one was created.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		close(s.done)
		if s.stopSweep != nil {
			s.stopSweep()
		}
	})
	s.cancelAll()
	if s.server == nil {
		return nil
	}
	if err := s.server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) startSweeper() {
	s.sweepOnce.Do(func() {
		sweeper := session.NewSweeper(s.sessions, s.sessionIdleTTL, s.sweepInterval, s.logger, func(string) {
			s.metrics.SessionClosed()
		})
		if sweeper == nil {
			return
		}
		ctx, cancel := context.WithCancel(context.Background())
		s.stopSweep = cancel
		go sweeper.Run(ctx)
	})
}

// New creates a new Server instance
func New(options ...Option) (*Server, error) {
	s := &Server{
		info: mcpschema.Implementation{
			Name:    "mcpgate",
			Version: "0.1",
		},
		protocolVersion:   mcpschema.LatestProtocolVersion,
		activeCalls:       collection.NewSyncMap[string, *activeCall](),
		logger:            slog.Default(),
		heartbeatInterval: defaultHeartbeatInterval,
		maxBodySize:       defaultMaxBodySize,
		now:               time.Now,
		done:              make(chan struct{}),
		httpServer: httpServer{
			addr:        defaultAddr,
			sseURI:      defaultSSEURI,
			messageURI:  defaultMessageURI,
			registerURI: defaultRegisterURI,
		},
	}
	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}
	if s.registry == nil {
		return nil, errors.New("no tool registry specified")
	}
	if s.sessionIdleTTL > 0 && s.sessionIdleTTL <= s.heartbeatInterval {
		return nil, fmt.Errorf("session idle ttl %v must exceed heartbeat interval %v", s.sessionIdleTTL, s.heartbeatInterval)
	}
	if s.sessions == nil {
		s.sessions = session.NewMemoryStore()
	}
	if s.corsConfig == nil {
		s.corsConfig = defaultCors()
	}
	s.corsHandler = (&corsHandler{Cors: s.corsConfig}).Middleware
	return s, nil
}
