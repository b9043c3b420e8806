// Package logger configures the process-wide slog handler and hands out
// component-scoped loggers.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// ParseLevel accepts debug, info, warn and error in any case.
func ParseLevel(name string) (slog.Level, error) {
	level, ok := levels[strings.ToLower(name)]
	if !ok {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// ValidFormat reports whether format names a supported handler.
func ValidFormat(format string) bool {
	return format == "text" || format == "json"
}

// Setup installs New(w, level, format) as the default logger.
func Setup(w io.Writer, level string, format string) {
	slog.SetDefault(New(w, level, format))
}

// New builds a logger writing to w, or stderr when w is nil. An unknown
// level means info and an unknown format means text.
func New(w io.Writer, level string, format string) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl, _ := ParseLevel(level)
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func WithComponent(component string) *slog.Logger {
	return slog.Default().With("component", component)
}
