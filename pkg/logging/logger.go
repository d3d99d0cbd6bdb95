// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs per-page detail and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs run start/finish and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs warning messages and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"

	// LevelDisabled turns logging off.
	LevelDisabled LogLevel = "disabled"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	// Standard output is reserved for results.
	Output io.Writer
}

// DefaultConfig returns the CLI default: warnings and errors as JSON on stderr.
func DefaultConfig() Config {
	return Config{
		Level:  LevelWarn,
		Pretty: false,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(zerologLevel(cfg.Level))

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}

	logger := zerolog.New(output).With().Timestamp().Logger()
	log.Logger = logger

	return logger
}

// ParseLevel validates a level name. "warning" is accepted for "warn".
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "disabled", "off", "none":
		return LevelDisabled, nil
	default:
		return "", fmt.Errorf("unknown log level %q (want debug, info, warn, error or disabled)", s)
	}
}

// zerologLevel converts LogLevel to zerolog.Level, defaulting to Warn.
func zerologLevel(level LogLevel) zerolog.Level {
	switch level {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelError:
		return zerolog.ErrorLevel
	case LevelDisabled:
		return zerolog.Disabled
	default:
		return zerolog.WarnLevel
	}
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: per-page detail
//   - each page fetched (page, url, entries)
//   - cache revalidation (304 served from cache)
//
// Info: one-off run events
//   - resolved strategy (strategy, last_page, next_url)
//   - parallel fetch start, run completion with duration
//
// Warn: degraded but still correct operation
//   - cache read/write failures (request proceeds uncached)
//   - HTTP error responses before the run aborts
//
// Error: the run failed
//
// Context Fields:
//   - component: client, unpager, cli
//   - url: request URL
//   - page: page number
//   - strategy: exhausted, link_chain, numeric_range
//   - status: HTTP status code
//   - error_class: client, server, network, decode
