package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var log *slog.Logger

func Init() {
	opts := &slog.HandlerOptions{Level: levelFromEnv(os.Getenv("LOG_LEVEL"))}
	log = New(NewJSONHandler(os.Stdout, opts))
	slog.SetDefault(log)
}

func New(h slog.Handler) *slog.Logger {
	return slog.New(h)
}

func NewJSONHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	return slog.NewJSONHandler(w, opts)
}

func levelFromEnv(v string) slog.Level {
	switch strings.ToLower(v) {
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

func get() *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}

func Info(msg string, args ...any) {
	get().Info(msg, args...)
}

func Infof(format string, v ...any) {
	get().Info(fmt.Sprintf(format, v...))
}

func Warn(msg string, args ...any) {
	get().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	get().Error(msg, args...)
}

func Errorf(format string, v ...any) {
	get().Error(fmt.Sprintf(format, v...))
}

func Debug(msg string, args ...any) {
	get().Debug(msg, args...)
}

func Debugf(format string, v ...any) {
	get().Debug(fmt.Sprintf(format, v...))
}

func Fatalf(format string, v ...any) {
	get().Error(fmt.Sprintf(format, v...))
	os.Exit(1)
}

func WithError(err error) *slog.Logger {
	if err == nil {
		return get()
	}
	return get().With("error", err.Error())
}

func WithFields(fields map[string]interface{}) *slog.Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return get().With(args...)
}
