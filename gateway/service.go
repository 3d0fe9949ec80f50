package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/viant/jsonrpc/transport/server/stdio"
	"github.com/viant/mcpgate"
	"github.com/viant/mcpgate/internal/telemetry"
	"github.com/viant/mcpgate/logger"
	"github.com/viant/mcpgate/server"
	"github.com/viant/mcpgate/server/session"
	"github.com/viant/mcpgate/tool/graph"
	"github.com/viant/mcpgate/tool/search"
)

const shutdownTimeout = 10 * time.Second

// Service is a configured gateway process.
type Service struct {
	config  *Config
	logger  *slog.Logger
	server  *server.Server
	closers []func() error
}

// Server returns the gateway server.
func (s *Service) Server() *server.Server {
	return s.server
}

// Run serves the configured transport until ctx is done or the transport fails.
// The stdio transport reads stdin and answers on os.Stdout.
func (s *Service) Run(ctx context.Context, stdin io.ReadCloser) error {
	if s.config.Server.Transport.Type == "stdio" {
		s.logger.Info("serving stdio")
		var options []stdio.Option
		if stdin != nil {
			options = append(options, stdio.WithReader(stdin))
		}
		err := s.server.Stdio(ctx, options...).ListenAndServe()
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	httpServer := s.server.HTTP(ctx, "")
	errs := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", httpServer.Addr)
		errs <- httpServer.ListenAndServe()
	}()
	select {
	case err := <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

// Close releases stores opened by New.
func (s *Service) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// New builds the stores, tools and server described by config.
func New(ctx context.Context, config *Config) (*Service, error) {
	config.init()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	ret := &Service{config: config, logger: logger.New(config.Logger)}
	graphStore, err := ret.graphStore(ctx)
	if err != nil {
		return nil, err
	}
	sessionStore, err := ret.sessionStore()
	if err != nil {
		_ = ret.Close()
		return nil, err
	}

	var metrics *telemetry.Metrics
	if !config.DisableMetrics {
		metrics = telemetry.New()
	}
	searchOptions := []search.Option{search.WithLogger(ret.logger)}
	if metrics != nil {
		searchOptions = append(searchOptions, search.WithFallbackRecorder(metrics))
	}
	if config.Search.APIKey != "" {
		searchOptions = append(searchOptions, search.WithEmbedder(search.NewOpenAIEmbedder(config.Search.APIKey, config.Search.BaseURL, config.Search.Model)))
	} else {
		ret.logger.Info("no embedding API key, search uses substring matching")
	}
	registry, err := mcpgate.NewRegistry(graphStore, searchOptions...)
	if err != nil {
		_ = ret.Close()
		return nil, err
	}
	ret.server, err = mcpgate.NewServer(registry, config.Server,
		server.WithLogger(ret.logger),
		server.WithMetrics(metrics),
		server.WithSessionStore(sessionStore),
	)
	if err != nil {
		_ = ret.Close()
		return nil, err
	}
	return ret, nil
}

func (s *Service) graphStore(ctx context.Context) (graph.Store, error) {
	if s.config.Graph.Store != StorePostgres {
		return graph.NewMemoryStore(), nil
	}
	store, err := graph.OpenPostgres(ctx, s.config.Graph.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph store: %w", err)
	}
	s.closers = append(s.closers, store.Close)
	return store, nil
}

func (s *Service) sessionStore() (session.Store, error) {
	if s.config.Session.Store != StoreRedis {
		return session.NewMemoryStore(), nil
	}
	var options []session.RedisOption
	if s.config.Session.KeyPrefix != "" {
		options = append(options, session.WithKeyPrefix(s.config.Session.KeyPrefix))
	}
	if ttl := s.config.Session.TTL; ttl > 0 {
		options = append(options, session.WithTTL(ttl))
	}
	store, err := session.DialRedis(s.config.Session.Addresses, options...)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, func() error {
		store.Close()
		return nil
	})
	return store, nil
}
