// Package logger configures the process-wide structured logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// L is the global logger. It discards output until Init is called.
var L = slog.New(slog.NewTextHandler(io.Discard, nil))

// ParseLevel maps a level name to a slog level. Unknown names yield info and false.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Init points the global logger at stderr. Quiet raises the level to error.
func Init(level string, quiet bool) {
	InitWriter(os.Stderr, level, quiet)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, level string, quiet bool) {
	lvl, ok := ParseLevel(level)
	if quiet {
		lvl = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			// Terminal output; timestamps are noise here.
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}
	L = slog.New(slog.NewTextHandler(w, opts))
	slog.SetDefault(L)

	if !ok {
		L.Warn("invalid log level, defaulting to info", "configured", level)
	}
}
