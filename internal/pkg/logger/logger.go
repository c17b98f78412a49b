// Package logger wraps a process-wide zap logger with context-aware helpers.
// Fields stored in the context (request id, user id) are attached to every entry.
package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

var global = zap.NewNop().Sugar()

// Init replaces the global logger. In development mode a console encoder is used.
func Init(level string, development bool) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	global = l.Sugar()
	return nil
}

// SetLogger replaces the global logger with an already built one.
func SetLogger(l *zap.Logger) {
	global = l.WithOptions(zap.AddCallerSkip(1)).Sugar()
}

func Sync() {
	_ = global.Sync()
}

// With returns a context whose log entries carry the given key/value pairs
// in addition to the ones already stored in ctx.
func With(ctx context.Context, keysAndValues ...interface{}) context.Context {
	fields := append(fieldsFrom(ctx), keysAndValues...)
	return context.WithValue(ctx, ctxKey{}, fields)
}

func fieldsFrom(ctx context.Context) []interface{} {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(ctxKey{}).([]interface{})
	// copy so that sibling contexts never share a backing array
	return append([]interface{}(nil), fields...)
}

func fromContext(ctx context.Context) *zap.SugaredLogger {
	fields := fieldsFrom(ctx)
	if len(fields) == 0 {
		return global
	}
	return global.With(fields...)
}

func Debugf(ctx context.Context, template string, args ...interface{}) {
	fromContext(ctx).Debugf(template, args...)
}

func Info(ctx context.Context, msg string) {
	fromContext(ctx).Info(msg)
}

func Infof(ctx context.Context, template string, args ...interface{}) {
	fromContext(ctx).Infof(template, args...)
}

func Warnf(ctx context.Context, template string, args ...interface{}) {
	fromContext(ctx).Warnf(template, args...)
}

func Errorf(ctx context.Context, template string, args ...interface{}) {
	fromContext(ctx).Errorf(template, args...)
}

func Fatal(ctx context.Context, err error) {
	fromContext(ctx).Fatal(err)
}
