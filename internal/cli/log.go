package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps (e.g. "14:32:01.45")
// that filters messages below level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stopwatch starts timing an operation. The returned function logs msg at
// info level with keyvals and the elapsed time, rounded to milliseconds.
func stopwatch(l *log.Logger, msg string) func(keyvals ...any) {
	start := time.Now()
	return func(keyvals ...any) {
		l.Info(msg, append(keyvals, "elapsed", time.Since(start).Round(time.Millisecond))...)
	}
}

type loggerKey struct{}

// withLogger returns a context carrying l.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
