// Package logger builds the structured slog logger used across the gateway.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

const (
	FormatDev  = "dev"
	FormatJSON = "json"
	FormatText = "text"
)

// Options configures a logger.
type Options struct {
	Format string    `yaml:"format" json:"format" long:"log-format" description:"log format" choice:"dev" choice:"json" choice:"text"`
	Level  string    `yaml:"level" json:"level" long:"log-level" description:"log level, e.g. debug, info, warn, error"`
	Writer io.Writer `yaml:"-" json:"-"`
}

// ParseLevel maps a level name onto slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "trace":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// New creates a logger; the dev format writes colored console output.
func New(options *Options) *slog.Logger {
	if options == nil {
		options = &Options{}
	}
	writer := options.Writer
	if writer == nil {
		writer = os.Stderr
	}
	level := ParseLevel(options.Level)
	switch strings.ToLower(options.Format) {
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level}))
	case FormatText:
		return slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(tint.NewHandler(writer, &tint.Options{
		Level:      level,
		TimeFormat: "[15:04:05.000]",
	}))
}

// Discard returns a logger dropping every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
