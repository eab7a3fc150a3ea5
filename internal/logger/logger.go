package logger

import (
	"io"
	"log/slog"
	"os"
	"sort"
	"sync/atomic"
)

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(New(os.Stdout, "info"))
}

// New builds a JSON logger writing to w at the given level.
// Unknown levels fall back to info.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: parseLevel(level),
	}))
}

// Init installs the process logger.
func Init(level string) {
	Set(New(os.Stdout, level))
	Info("logger initialized", map[string]any{"level": level})
}

// Set replaces the process logger. Tests use it to capture output.
func Set(l *slog.Logger) {
	current.Store(l)
}

// L returns the process logger for code that wants slog directly.
func L() *slog.Logger {
	return current.Load()
}

func Debug(msg string, fields map[string]any) {
	L().Debug(msg, attrs(fields)...)
}

func Info(msg string, fields map[string]any) {
	L().Info(msg, attrs(fields)...)
}

func Warn(msg string, fields map[string]any) {
	L().Warn(msg, attrs(fields)...)
}

func Error(msg string, fields map[string]any) {
	L().Error(msg, attrs(fields)...)
}

func Fatal(msg string, fields map[string]any) {
	L().Error(msg, append(attrs(fields), slog.Bool("fatal", true))...)
	os.Exit(1)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// attrs flattens fields into slog args with keys in sorted order.
func attrs(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]any, 0, len(keys))
	for _, k := range keys {
		out = append(out, slog.Any(k, fields[k]))
	}
	return out
}
