package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Logger is the process-wide logging contract. Handlers and middleware
// receive an explicitly constructed instance; the context carry in this
// package is the only other access path.
type Logger interface {
	With(kv ...any) Logger

	Debug(ctx context.Context, msg string, kv ...any)
	Info(ctx context.Context, msg string, kv ...any)
	Warn(ctx context.Context, msg string, kv ...any)
	Error(ctx context.Context, err error, msg string, kv ...any)
	Critical(ctx context.Context, err error, msg string, kv ...any)

	Sync() error
}

// LevelCritical extends slog's built-in levels one step past ERROR.
const LevelCritical = slog.LevelError + 4

type Options struct {
	App             string
	Version         string
	Commit          string
	BuildId         string
	Level           slog.Level
	StacktraceLevel slog.Level
	JsonFormat      bool
	Writer          io.Writer
}

func New(opts Options) (Logger, error) { return newSlog(opts) }

// ParseLevel maps the config strings to slog levels. "warning" and
// "critical" are accepted alongside slog's own names.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "critical":
		return LevelCritical, nil
	default:
		return 0, fmt.Errorf("unknown log level %s (valid levels are debug|info|warning|error|critical)", s)
	}
}

// LevelName renders levels in the wire schema's vocabulary
// (WARNING rather than slog's WARN, CRITICAL above ERROR).
func LevelName(l slog.Level) string {
	switch {
	case l >= LevelCritical:
		return "CRITICAL"
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARNING"
	case l >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
