package slogx

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Levels below Debug used by the -vv and -vvv verbosity flags.
const (
	LevelTrace = slog.LevelDebug - 4 // one line per trading day
	LevelFile  = slog.LevelDebug - 8 // one line per file read
)

// ParseLevel converts string (trace|debug|info|warn|error) to slog.Level. Unknown → info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// VerbosityLevel maps the number of -v flags to a level. Zero keeps base.
func VerbosityLevel(verbosity int, base slog.Level) slog.Level {
	switch {
	case verbosity <= 0:
		return base
	case verbosity == 1:
		return slog.LevelDebug
	case verbosity == 2:
		return LevelTrace
	default:
		return LevelFile
	}
}

// New creates a text logger on w at the given level. The custom levels are
// printed as TRACE and FILE.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceLevel,
	}))
}

// NewDefault creates a logger writing to stderr with the given level string.
func NewDefault(level string) *slog.Logger {
	return New(os.Stderr, ParseLevel(level))
}

func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	lvl, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}
	switch {
	case lvl <= LevelFile:
		a.Value = slog.StringValue("FILE")
	case lvl <= LevelTrace:
		a.Value = slog.StringValue("TRACE")
	}
	return a
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
