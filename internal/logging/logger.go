// Package logging builds zerolog loggers for the emitter and the example
// services. Output is human-readable on a terminal and JSON otherwise;
// LOG_FORMAT=json forces JSON and LOG_LEVEL selects the level.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Nop discards everything
var Nop = zerolog.Nop()

var defaultLogger = newDefault()

func newDefault() zerolog.Logger {
	var writer io.Writer = os.Stderr
	if isTerminal() && os.Getenv("LOG_FORMAT") != "json" {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}

	return zerolog.New(writer).
		Level(ParseLevel(os.Getenv("LOG_LEVEL"))).
		With().
		Timestamp().
		Logger()
}

// Default returns the process logger
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process logger
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
}

// New creates a JSON logger writing to w at the given level
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// NewConsole creates a human-readable logger writing to w
func NewConsole(w io.Writer, level zerolog.Level) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// ParseLevel maps a LOG_LEVEL value to a zerolog level, defaulting to info
func ParseLevel(s string) zerolog.Level {
	if s == "" {
		if os.Getenv("DEBUG") != "" {
			return zerolog.DebugLevel
		}
		return zerolog.InfoLevel
	}

	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func isTerminal() bool {
	info, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
