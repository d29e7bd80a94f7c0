// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var (
	// Logger is the global logger instance. Disabled until Init is called.
	Logger = zerolog.Nop()
)

// Level represents log level
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// Levels lists every accepted level name.
var Levels = []Level{DebugLevel, InfoLevel, WarnLevel, ErrorLevel}

// Config holds logging configuration
type Config struct {
	Level      Level
	JSONOutput bool
	// Output defaults to stderr so command output on stdout stays clean.
	Output io.Writer
}

// ParseLevel maps a level name to zerolog. Unknown names fall back to info.
func ParseLevel(l Level) zerolog.Level {
	switch l {
	case DebugLevel:
		return zerolog.DebugLevel
	case InfoLevel:
		return zerolog.InfoLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New builds a logger from cfg without touching the global one.
func New(cfg Config) zerolog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	var l zerolog.Logger
	if cfg.JSONOutput {
		l = zerolog.New(output)
	} else {
		l = zerolog.New(zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		})
	}
	return l.Level(ParseLevel(cfg.Level)).With().Timestamp().Logger()
}

// Init initializes the global logger
func Init(cfg Config) {
	Logger = New(cfg)
}

// WithComponent creates a child logger with component field
func WithComponent(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}

// WithServiceID creates a child logger with service_id field
func WithServiceID(l zerolog.Logger, serviceID string) zerolog.Logger {
	return l.With().Str("service_id", serviceID).Logger()
}
