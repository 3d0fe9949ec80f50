package gateway

import "time"

// Options are the command line flags; set flags override the config file.
type Options struct {
	ConfigURL      string        `short:"c" long:"config" description:"config file URL (local path or any afs supported scheme)"`
	Addr           string        `short:"a" long:"addr" description:"http listen address"`
	Stdio          bool          `long:"stdio" description:"serve newline delimited JSON-RPC on stdin/stdout instead of HTTP"`
	LogFormat      string        `long:"log-format" description:"log format" choice:"dev" choice:"json" choice:"text"`
	LogLevel       string        `long:"log-level" description:"log level, e.g. debug, info, warn, error"`
	DatabaseURL    string        `long:"database-url" env:"DATABASE_URL" description:"postgres URL; enables the postgres graph store"`
	RedisAddresses []string      `long:"redis" description:"redis address; enables the redis session store"`
	StrictSessions bool          `long:"strict-sessions" description:"reject relay calls with an unknown session token"`
	ToolTimeout    time.Duration `long:"tool-timeout" description:"tool call timeout, e.g. 30s"`
	EmbeddingURL   string        `long:"embedding-url" description:"OpenAI compatible API base URL"`
	EmbeddingModel string        `long:"embedding-model" description:"embedding model"`
}
