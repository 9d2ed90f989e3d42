// Package log is a context-aware wrapper around zap. Hooks extract tenant
// identity from the context so every line carries the organization and
// user of the request that produced it.
package log

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config configures the logger.
type Config struct {
	Name    string   `conf:"name"    yaml:"name"    json:"name"`
	Level   string   `conf:"level"   yaml:"level"   json:"level"`
	Format  string   `conf:"format"  yaml:"format"  json:"format"`
	Outputs []string `conf:"outputs" yaml:"outputs" json:"outputs"`

	File FileConfig `conf:"file" yaml:"file" json:"file"`
}

// FileConfig configures rotated file output.
type FileConfig struct {
	Path       string `conf:"path"        yaml:"path"        json:"path"`
	MaxSizeMB  int    `conf:"max_size"    yaml:"max_size"    json:"max_size"`
	MaxBackups int    `conf:"max_backups" yaml:"max_backups" json:"max_backups"`
	MaxAgeDays int    `conf:"max_age"     yaml:"max_age"     json:"max_age"`
	Compress   bool   `conf:"compress"    yaml:"compress"    json:"compress"`
}

// DefaultConfig returns a console logger at info level.
func DefaultConfig() Config {
	return Config{
		Name:    "facturio",
		Level:   "info",
		Format:  "console",
		Outputs: []string{"stdout"},
	}
}

// Logger wraps a zap logger with context hooks.
type Logger struct {
	zl    *zap.Logger
	hooks []Hook
}

// New builds a logger from the config. Invalid levels fall back to info.
func New(cfg Config) *Logger {
	level := zapcore.InfoLevel
	if parsed, err := zapcore.ParseLevel(cfg.Level); err == nil {
		level = parsed
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	var writers []zapcore.WriteSyncer

	for _, output := range cfg.Outputs {
		switch output {
		case "stderr":
			writers = append(writers, zapcore.AddSync(os.Stderr))
		case "file":
			if cfg.File.Path == "" {
				continue
			}

			writers = append(writers, zapcore.AddSync(&lumberjack.Logger{
				Filename:   cfg.File.Path,
				MaxSize:    cfg.File.MaxSizeMB,
				MaxBackups: cfg.File.MaxBackups,
				MaxAge:     cfg.File.MaxAgeDays,
				Compress:   cfg.File.Compress,
			}))
		default:
			writers = append(writers, zapcore.AddSync(os.Stdout))
		}
	}

	if len(writers) == 0 {
		writers = append(writers, zapcore.AddSync(os.Stdout))
	}

	core := zapcore.NewCore(encoder, zap.CombineWriteSyncers(writers...), level)
	zl := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))

	if cfg.Name != "" {
		zl = zl.Named(cfg.Name)
	}

	return &Logger{
		zl:    zl,
		hooks: defaultHooks,
	}
}

// With returns a logger with the fields attached to every entry.
func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{
		zl:    l.zl.With(fields...),
		hooks: l.hooks,
	}
}

func (l *Logger) log(ctx context.Context, level zapcore.Level, message string, fields []Field) {
	for _, hook := range l.hooks {
		fields = append(fields, hook.Apply(ctx, message)...)
	}

	if entry := l.zl.Check(level, message); entry != nil {
		entry.Write(fields...)
	}
}

// Debug logs a debug message with context fields.
func (l *Logger) Debug(ctx context.Context, message string, fields ...Field) {
	l.log(ctx, zapcore.DebugLevel, message, fields)
}

// Info logs an info message with context fields.
func (l *Logger) Info(ctx context.Context, message string, fields ...Field) {
	l.log(ctx, zapcore.InfoLevel, message, fields)
}

// Warn logs a warning with context fields.
func (l *Logger) Warn(ctx context.Context, message string, fields ...Field) {
	l.log(ctx, zapcore.WarnLevel, message, fields)
}

// Error logs an error with context fields.
func (l *Logger) Error(ctx context.Context, message string, fields ...Field) {
	l.log(ctx, zapcore.ErrorLevel, message, fields)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.zl.Sync()
}

var (
	globalMu sync.RWMutex
	global   = New(DefaultConfig())
)

// SetGlobalConfig rebuilds the global logger from the config.
func SetGlobalConfig(cfg Config) {
	globalMu.Lock()
	defer globalMu.Unlock()

	global = New(cfg)
}

// GetGlobalLogger returns the global logger.
func GetGlobalLogger() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()

	return global
}

// Debug logs a debug message on the global logger.
func Debug(ctx context.Context, message string, fields ...Field) {
	GetGlobalLogger().log(ctx, zapcore.DebugLevel, message, fields)
}

// Info logs an info message on the global logger.
func Info(ctx context.Context, message string, fields ...Field) {
	GetGlobalLogger().log(ctx, zapcore.InfoLevel, message, fields)
}

// Warn logs a warning on the global logger.
func Warn(ctx context.Context, message string, fields ...Field) {
	GetGlobalLogger().log(ctx, zapcore.WarnLevel, message, fields)
}

// Error logs an error on the global logger.
func Error(ctx context.Context, message string, fields ...Field) {
	GetGlobalLogger().log(ctx, zapcore.ErrorLevel, message, fields)
}
