// Package logger configures the process-wide structured logger. Output
// is JSON on the given writer with UTC RFC3339 timestamps, so search
// logs can be collected and filtered per trial.
package logger

import (
	"io"
	"log/slog"
	"sync"
	"time"
)

var (
	mu     sync.RWMutex
	global = slog.New(slog.NewJSONHandler(io.Discard, nil))
)

// Setup builds the global logger writing JSON to w. Debug lowers the
// level and records source positions. The logger is also returned for
// direct injection.
func Setup(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	addSource := false
	if debug {
		level = slog.LevelDebug
		addSource = true
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		},
	})
	l := slog.New(h)

	mu.Lock()
	global = l
	mu.Unlock()
	return l
}

// L returns the global logger. Before Setup it discards everything.
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}
