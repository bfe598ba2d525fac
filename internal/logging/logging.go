// Package logging builds the logr.Logger used across the CLI and services.
// Output goes to stderr so report output on stdout stays pipeable.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// Log levels accepted from configuration.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Log formats accepted from configuration.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New builds a logger honoring the configured level and format. Unknown
// values fall back to info-level text logging.
func New(level, format string) logr.Logger {
	return NewWithWriter(os.Stderr, level, format)
}

// NewWithWriter is New with an explicit sink, used by tests.
func NewWithWriter(w io.Writer, level, format string) logr.Logger {
	opts := funcr.Options{
		Verbosity:    verbosityFor(level),
		LogTimestamp: true,
	}

	if strings.EqualFold(format, FormatJSON) {
		return funcr.NewJSON(func(obj string) {
			fmt.Fprintln(w, obj)
		}, opts)
	}

	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintln(w, prefix, args)
			return
		}
		fmt.Fprintln(w, args)
	}, opts)
}

// verbosityFor maps a named level onto funcr verbosity. Debug enables V(1)
// diagnostics, info keeps V(0) only, and warn/error silence Info entirely
// so just logr errors reach the sink.
func verbosityFor(level string) int {
	switch strings.ToLower(level) {
	case LevelDebug:
		return 1
	case LevelWarn, "warning", LevelError:
		return -1
	default:
		return 0
	}
}
