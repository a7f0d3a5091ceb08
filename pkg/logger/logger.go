// Package logger is the structured logging facade used across hoopcast.
// It fronts slog with a small Field vocabulary and per-component child
// loggers so adapters never depend on slog directly.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"
)

// serviceName tags every line this process emits.
const serviceName = "hoopcast"

// callerSkip walks runtime.Caller past caller -> log -> level method.
const callerSkip = 3

// Logger is the logging contract handed to components.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Field)
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)

	// Named returns a child logger tagged with a component name
	// (service, worker, ingest, simulate, ...).
	Named(component string) Logger
}

// Field is one structured key-value pair.
type Field struct {
	Key   string
	Value interface{}
}

// Field constructors.
func String(key, val string) Field          { return Field{Key: key, Value: val} }
func Int(key string, val int) Field         { return Field{Key: key, Value: val} }
func Float64(key string, val float64) Field { return Field{Key: key, Value: val} }
func Any(key string, val interface{}) Field { return Field{Key: key, Value: val} }
func Error(err error) Field                 { return Field{Key: "error", Value: err} }

// componentLogger implements Logger over a slog.Logger that already
// carries the service and component attributes.
type componentLogger struct {
	sl *slog.Logger
}

func (l *componentLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, slog.LevelDebug, msg, fields)
}

func (l *componentLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, slog.LevelInfo, msg, fields)
}

func (l *componentLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, slog.LevelWarn, msg, fields)
}

func (l *componentLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, slog.LevelError, msg, fields)
}

func (l *componentLogger) Named(component string) Logger {
	return &componentLogger{sl: l.sl.With(slog.String("component", component))}
}

func (l *componentLogger) log(ctx context.Context, level slog.Level, msg string, fields []Field) {
	if !l.sl.Enabled(ctx, level) {
		return
	}
	attrs := make([]slog.Attr, 0, len(fields)+1)
	for _, f := range fields {
		attrs = append(attrs, slog.Any(f.Key, f.Value))
	}
	attrs = append(attrs, slog.String("source", caller()))
	l.sl.LogAttrs(ctx, level, msg, attrs...)
}

// caller reports the module-relative file:line of the logging call site.
func caller() string {
	_, file, line, ok := runtime.Caller(callerSkip)
	if !ok {
		return "unknown:0"
	}
	if idx := strings.LastIndex(file, "/"+serviceName+"/"); idx >= 0 {
		file = file[idx+len(serviceName)+2:]
	}
	return fmt.Sprintf("%s:%d", file, line)
}

var (
	global   Logger
	levelVar slog.LevelVar
)

// Init builds the process-wide logger writing text lines to stdout,
// tagged with the service name. The level starts at info and follows
// SetLevelString afterwards.
func Init() error {
	levelVar.Set(slog.LevelInfo)
	h := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: &levelVar})
	global = &componentLogger{sl: slog.New(h).With(slog.String("service", serviceName))}
	return nil
}

// Get returns the process-wide logger, initializing it on first use so
// tests and tools need no explicit Init.
func Get() Logger {
	if global == nil {
		_ = Init()
	}
	return global
}

// Named returns a child of the process-wide logger tagged with component.
func Named(component string) Logger {
	return Get().Named(component)
}

// Sync flushes buffered entries. slog writes through, so this only
// exists to keep shutdown paths uniform.
func Sync() error {
	return nil
}

// SetLevel updates the level of the process-wide handler.
func SetLevel(level slog.Level) { levelVar.Set(level) }

// SetLevelString parses and sets the logging level.
// Accepts: debug, info, warn/warning, error (case-insensitive).
func SetLevelString(level string) error {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		SetLevel(slog.LevelDebug)
	case "", "info":
		SetLevel(slog.LevelInfo)
	case "warn", "warning":
		SetLevel(slog.LevelWarn)
	case "error":
		SetLevel(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level: %s", level)
	}
	return nil
}
