package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
}

// Init installs a JSON logger on stdout with the level taken from LOG_LEVEL.
func Init() {
	SetOutput(os.Stdout)
	Info("logger initialized", nil)
}

// SetOutput redirects all log records to w.
func SetOutput(w io.Writer) {
	SetOutputLevel(w, slog.LevelInfo)
}

// SetOutputLevel is SetOutput with the level used when LOG_LEVEL is unset.
// Interactive tools pass a quieter fallback.
func SetOutputLevel(w io.Writer, fallback slog.Level) {
	l := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("LOG_LEVEL"), fallback),
	}))
	current.Store(l)
	slog.SetDefault(l)
}

func parseLevel(level string, fallback slog.Level) slog.Level {
	switch strings.ToLower(level) {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return fallback
	}
}

func Debug(msg string, fields map[string]any) {
	current.Load().Debug(msg, attrs(fields)...)
}

func Info(msg string, fields map[string]any) {
	current.Load().Info(msg, attrs(fields)...)
}

func Warn(msg string, fields map[string]any) {
	current.Load().Warn(msg, attrs(fields)...)
}

func Error(msg string, fields map[string]any) {
	current.Load().Error(msg, attrs(fields)...)
}

func Fatal(msg string, fields map[string]any) {
	current.Load().Error(msg, attrs(fields)...)
	os.Exit(1)
}

func attrs(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	group := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		group = append(group, k, v)
	}
	return []any{slog.Group("fields", group...)}
}
