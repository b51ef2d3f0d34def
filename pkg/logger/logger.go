// Package logger provides the ctx-aware structured logger used across
// the project, built on zap. When a trace-id extractor is supplied,
// every record carries the active trace id.
package logger

import (
	"context"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level controls the minimum severity that is emitted.
type Level zapcore.Level

const (
	LevelDebug = Level(zapcore.DebugLevel)
	LevelInfo  = Level(zapcore.InfoLevel)
	LevelWarn  = Level(zapcore.WarnLevel)
	LevelError = Level(zapcore.ErrorLevel)
)

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger emits JSON records annotated with the service name and, when
// available, the active trace id.
type Logger struct {
	s       *zap.SugaredLogger
	traceID func(context.Context) string
}

// New constructs a Logger writing to w. traceIDFn may be nil.
func New(w io.Writer, level Level, service string, traceIDFn func(context.Context) string) *Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.AddSync(w), zapcore.Level(level))
	l := zap.New(core).With(zap.String("service", service))
	return &Logger{s: l.Sugar(), traceID: traceIDFn}
}

// Debug logs at debug level with alternating key/value pairs.
func (l *Logger) Debug(ctx context.Context, msg string, kv ...any) {
	l.s.Debugw(msg, l.annotate(ctx, kv)...)
}

// Info logs at info level with alternating key/value pairs.
func (l *Logger) Info(ctx context.Context, msg string, kv ...any) {
	l.s.Infow(msg, l.annotate(ctx, kv)...)
}

// Warn logs at warn level with alternating key/value pairs.
func (l *Logger) Warn(ctx context.Context, msg string, kv ...any) {
	l.s.Warnw(msg, l.annotate(ctx, kv)...)
}

// Error logs at error level with alternating key/value pairs.
func (l *Logger) Error(ctx context.Context, msg string, kv ...any) {
	l.s.Errorw(msg, l.annotate(ctx, kv)...)
}

// Sync flushes buffered records.
func (l *Logger) Sync() error {
	return l.s.Sync()
}

func (l *Logger) annotate(ctx context.Context, kv []any) []any {
	if l.traceID != nil {
		if id := l.traceID(ctx); id != "" {
			kv = append(kv, "trace_id", id)
		}
	}
	return kv
}
