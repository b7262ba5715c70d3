package refcollect

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with arena-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithRoot adds a root index field to the logger.
func (l *Logger) WithRoot(root int) *Logger {
	return &Logger{
		Logger: l.Logger.With("root", root),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogSweep logs a sweep pass.
func (l *Logger) LogSweep(stats SweepStats, err error) {
	if err != nil {
		l.Error("sweep failed",
			"reclaimed", stats.Reclaimed,
			"error", err,
		)
		return
	}
	l.Debug("sweep completed",
		"reclaimed", stats.Reclaimed,
		"roots_emptied", stats.RootsEmptied,
		"chains_truncated", stats.ChainsTruncated,
		"duration", stats.Duration,
	)
}

// LogTeardown logs arena teardown.
func (l *Logger) LogTeardown(reclaimed, abandoned int, leaked bool, err error) {
	switch {
	case err != nil:
		l.Error("teardown failed",
			"reclaimed", reclaimed,
			"error", err,
		)
	case leaked:
		l.Info("teardown skipped, arena leaked",
			"abandoned", abandoned,
		)
	default:
		l.Debug("teardown completed",
			"reclaimed", reclaimed,
		)
	}
}

// LogContractViolation logs a rejected operation.
func (l *Logger) LogContractViolation(op string, err error) {
	l.Warn("operation rejected",
		"op", op,
		"error", err,
	)
}
