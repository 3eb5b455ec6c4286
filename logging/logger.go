package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with map-matching specific helpers.
// This keeps field names consistent across the server and the matcher.
type Logger struct {
	*slog.Logger
}

// New creates a Logger writing to w (stderr when nil). format is "text" or "json".
func New(w io.Writer, level, format string) (*Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return &Logger{Logger: slog.New(handler)}, nil
}

// Noop creates a Logger that discards all log output.
func Noop() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(level string) (slog.Level, error) {
	var lvl slog.Level
	if level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", level)
	}
	return lvl, nil
}

// WithTrace tags every record with a trace identifier.
func (l *Logger) WithTrace(id string) *Logger {
	return &Logger{Logger: l.Logger.With("trace", id)}
}

// LogUpdate logs the outcome of feeding one observation.
func (l *Logger) LogUpdate(ctx context.Context, index int, err error) {
	if err != nil {
		l.DebugContext(ctx, "observation skipped",
			"index", index,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "observation decoded",
			"index", index,
		)
	}
}

// LogMatch logs a finished trace.
func (l *Logger) LogMatch(ctx context.Context, observations, skipped, roads int, confidence float64) {
	if skipped > 0 {
		l.WarnContext(ctx, "match completed with skipped observations",
			"observations", observations,
			"skipped", skipped,
			"roads", roads,
			"confidence", confidence,
		)
	} else {
		l.InfoContext(ctx, "match completed",
			"observations", observations,
			"roads", roads,
			"confidence", confidence,
		)
	}
}
