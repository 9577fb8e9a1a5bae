package logger

import (
	"fmt"
	"io"

	"golang.org/x/exp/slog"
	"gopkg.in/natefinch/lumberjack.v2"

	"feedkeeper/internal/utils/logger/slogpretty"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// NewWithLevel создает логгер для окружения env с выводом в w.
// Непустой level заменяет уровень, принятый для окружения.
func NewWithLevel(env, level string, w io.Writer) (*slog.Logger, error) {
	lvl := envLevel(env)
	if level != "" {
		parsed, err := ParseLevel(level)
		if err != nil {
			return nil, err
		}
		lvl = parsed
	}
	return newLogger(env, lvl, w), nil
}

// ParseLevel разбирает уровень вида debug, info, warn, error
func ParseLevel(level string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("unknown log level %q: %w", level, err)
	}
	return lvl, nil
}

func envLevel(env string) slog.Level {
	switch env {
	case EnvLocal, EnvDev:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

func newLogger(env string, level slog.Level, w io.Writer) *slog.Logger {
	if env == EnvLocal {
		return setupPrettySlogWriter(w, level)
	}
	return slog.New(
		slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}),
	)
}

// NewRotatingWriter возвращает файл лога с ротацией по размеру
func NewRotatingWriter(path string) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // мегабайт
		MaxBackups: 3,
		MaxAge:     28, // дней
		Compress:   true,
	}
}

func setupPrettySlogWriter(w io.Writer, level slog.Level) *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: level,
		},
	}

	handler := opts.NewPrettyHandler(w)

	return slog.New(handler)
}
