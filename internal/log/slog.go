package log

import (
	"context"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AsSlog exposes the logger through the standard slog interface, for
// libraries that take a *slog.Logger.
func (l *Logger) AsSlog() *slog.Logger {
	return slog.New(&slogHandler{zl: l.zl})
}

type slogHandler struct {
	zl *zap.Logger
}

func (h *slogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.zl.Core().Enabled(slogToZapLevel(level))
}

func (h *slogHandler) Handle(_ context.Context, record slog.Record) error {
	fields := make([]zap.Field, 0, record.NumAttrs())

	record.Attrs(func(attr slog.Attr) bool {
		fields = append(fields, zap.Any(attr.Key, attr.Value.Any()))
		return true
	})

	if entry := h.zl.Check(slogToZapLevel(record.Level), record.Message); entry != nil {
		entry.Write(fields...)
	}

	return nil
}

func (h *slogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	fields := make([]zap.Field, 0, len(attrs))
	for _, attr := range attrs {
		fields = append(fields, zap.Any(attr.Key, attr.Value.Any()))
	}

	return &slogHandler{zl: h.zl.With(fields...)}
}

func (h *slogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return &slogHandler{zl: h.zl.Named(name)}
}

func slogToZapLevel(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
