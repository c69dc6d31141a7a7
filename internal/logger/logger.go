// Package logger provides a lightweight, centralized logging facility
// with configurable verbosity levels, backed by zerolog.
//
// Design goals:
//   - Simple API (Errorf, Infof, Debugf, Tracef)
//   - Centralized verbosity control
//   - Zero formatting logic at call sites
//
// Verbosity levels (in increasing order):
//
//	Error < Info < Debug < Trace
//
// Example usage:
//
//	logger.SetVerbosity(logger.Debug)
//	logger.Infof("starting engine")
//	logger.Debugf("spot=%f vol=%f", spot, vol)
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level represents a logging verbosity level.
// Higher values mean more verbose logging.
type Level int

const (
	Error Level = iota // Error logs only critical failures.
	Info               // Info logs high-level application progress.
	Debug              // Debug logs detailed diagnostic information.
	Trace              // Trace logs very fine-grained execution details.
)

var zl zerolog.Logger

func init() {
	// Log to stderr so diagnostic output stays separate from program
	// output, which matters for CLI pipelines.
	SetOutput(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	SetVerbosity(int(Info))
}

// SetOutput replaces the log destination. Pass a plain io.Writer for JSON
// output or a zerolog.ConsoleWriter for human-readable output.
func SetOutput(w io.Writer) {
	zl = zerolog.New(w).With().Timestamp().Logger()
}

// SetVerbosity sets the global logging verbosity. Typically called once
// during application startup (e.g. after parsing CLI flags).
func SetVerbosity(v int) {
	switch Level(v) {
	case Error:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case Info:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case Debug:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}
}

// SetLevelName sets verbosity from a level name (error, info, debug, trace).
// Unknown names keep the current level.
func SetLevelName(name string) {
	switch name {
	case "error":
		SetVerbosity(int(Error))
	case "info":
		SetVerbosity(int(Info))
	case "debug":
		SetVerbosity(int(Debug))
	case "trace":
		SetVerbosity(int(Trace))
	}
}

// Errorf logs an error-level message.
// Use this for failures that require attention.
func Errorf(format string, args ...any) {
	zl.Error().Msgf(format, args...)
}

// Infof logs an informational message.
// Use this for major lifecycle events.
func Infof(format string, args ...any) {
	zl.Info().Msgf(format, args...)
}

// Debugf logs debugging information.
// Use this for diagnostic output useful during development.
func Debugf(format string, args ...any) {
	zl.Debug().Msgf(format, args...)
}

// Tracef logs very detailed execution traces.
// Use this sparingly due to high volume.
func Tracef(format string, args ...any) {
	zl.Trace().Msgf(format, args...)
}
