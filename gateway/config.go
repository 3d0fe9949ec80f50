package gateway

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/viant/afs"
	"github.com/viant/mcpgate"
	"github.com/viant/mcpgate/logger"
	"gopkg.in/yaml.v3"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"

	apiKeyEnv = "OPENAI_API_KEY"
)

type (
	// Config is the gateway process configuration.
	Config struct {
		Server         *mcpgate.ServerOptions `yaml:"server" json:"server"`
		Logger         *logger.Options        `yaml:"logger" json:"logger"`
		Graph          *GraphConfig           `yaml:"graph" json:"graph"`
		Session        *SessionConfig         `yaml:"session" json:"session"`
		Search         *SearchConfig          `yaml:"search" json:"search"`
		DisableMetrics bool                   `yaml:"disableMetrics" json:"disableMetrics"`
	}

	GraphConfig struct {
		Store       string `yaml:"store" json:"store"`
		DatabaseURL string `yaml:"databaseURL" json:"databaseURL"`
	}

	SessionConfig struct {
		Store     string        `yaml:"store" json:"store"`
		Addresses []string      `yaml:"addresses" json:"addresses"`
		KeyPrefix string        `yaml:"keyPrefix" json:"keyPrefix"`
		TTL       time.Duration `yaml:"ttl" json:"ttl"`
	}

	SearchConfig struct {
		APIKey  string `yaml:"apiKey" json:"apiKey"`
		BaseURL string `yaml:"baseURL" json:"baseURL"`
		Model   string `yaml:"model" json:"model"`
	}
)

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: &mcpgate.ServerOptions{
			Name:        "mcpgate",
			Version:     "0.1",
			ToolTimeout: 60 * time.Second,
			Transport: &mcpgate.ServerTransport{
				Type: "http",
				Options: &mcpgate.ServerTransportOptions{
					Addr:              ":5000",
					SSEURI:            "/sse",
					MessageURI:        "/messages",
					HeartbeatInterval: 30 * time.Second,
					SessionIdleTTL:    10 * time.Minute,
					SweepInterval:     time.Minute,
				},
			},
		},
		Logger:  &logger.Options{Format: logger.FormatDev, Level: "info"},
		Graph:   &GraphConfig{Store: StoreMemory},
		Session: &SessionConfig{Store: StoreMemory},
		Search:  &SearchConfig{},
	}
}

// LoadConfig reads a YAML config from URL on top of the defaults.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	ret := DefaultConfig()
	if URL == "" {
		return ret, nil
	}
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode config %v: %w", URL, err)
	}
	ret.init()
	return ret, nil
}

// init restores sections a partial file left nil.
func (c *Config) init() {
	defaults := DefaultConfig()
	if c.Server == nil {
		c.Server = defaults.Server
	}
	if c.Server.Transport == nil {
		c.Server.Transport = defaults.Server.Transport
	}
	if c.Server.Transport.Options == nil {
		c.Server.Transport.Options = defaults.Server.Transport.Options
	}
	if c.Logger == nil {
		c.Logger = defaults.Logger
	}
	if c.Graph == nil {
		c.Graph = defaults.Graph
	}
	if c.Session == nil {
		c.Session = defaults.Session
	}
	if c.Search == nil {
		c.Search = defaults.Search
	}
}

// Apply overrides configuration with the flags that were set.
func (c *Config) Apply(options *Options) {
	c.init()
	if options == nil {
		return
	}
	transport := c.Server.Transport
	if options.Stdio {
		transport.Type = "stdio"
	}
	if options.Addr != "" {
		transport.Options.Addr = options.Addr
	}
	if options.StrictSessions {
		transport.Options.StrictSessions = true
	}
	if options.ToolTimeout > 0 {
		c.Server.ToolTimeout = options.ToolTimeout
	}
	if options.LogFormat != "" {
		c.Logger.Format = options.LogFormat
	}
	if options.LogLevel != "" {
		c.Logger.Level = options.LogLevel
	}
	if options.DatabaseURL != "" {
		c.Graph.Store = StorePostgres
		c.Graph.DatabaseURL = options.DatabaseURL
	}
	if len(options.RedisAddresses) > 0 {
		c.Session.Store = StoreRedis
		c.Session.Addresses = options.RedisAddresses
	}
	if options.EmbeddingURL != "" {
		c.Search.BaseURL = options.EmbeddingURL
	}
	if options.EmbeddingModel != "" {
		c.Search.Model = options.EmbeddingModel
	}
	if c.Search.APIKey == "" {
		c.Search.APIKey = os.Getenv(apiKeyEnv)
	}
}

// Validate checks store selections.
func (c *Config) Validate() error {
	switch c.Graph.Store {
	case "", StoreMemory:
	case StorePostgres:
		if c.Graph.DatabaseURL == "" {
			return fmt.Errorf("graph store %v requires databaseURL", StorePostgres)
		}
	default:
		return fmt.Errorf("unsupported graph store: %v", c.Graph.Store)
	}
	switch c.Session.Store {
	case "", StoreMemory:
	case StoreRedis:
		if len(c.Session.Addresses) == 0 {
			return fmt.Errorf("session store %v requires addresses", StoreRedis)
		}
	default:
		return fmt.Errorf("unsupported session store: %v", c.Session.Store)
	}
	switch c.Server.Transport.Type {
	case "", "http", "stdio":
	default:
		return fmt.Errorf("unsupported transport: %v", c.Server.Transport.Type)
	}
	heartbeat := c.Server.Transport.Options.HeartbeatInterval
	if heartbeat <= 0 {
		heartbeat = DefaultConfig().Server.Transport.Options.HeartbeatInterval
	}
	if ttl := c.Server.Transport.Options.SessionIdleTTL; ttl > 0 && ttl <= heartbeat {
		return fmt.Errorf("sessionIdleTTL %v must exceed heartbeatInterval %v", ttl, heartbeat)
	}
	if ttl := c.Session.TTL; ttl > 0 && ttl <= heartbeat {
		return fmt.Errorf("session ttl %v must exceed heartbeatInterval %v", ttl, heartbeat)
	}
	return nil
}
