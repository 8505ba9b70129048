// Package logger wraps zap behind a small interface so packages log
// without depending on the zap API directly.
package logger

import "go.uber.org/zap"

type Logger interface {
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

type zapLogger struct {
	zap *zap.Logger
}

func (l zapLogger) Info(msg string, fields ...Field) {
	l.zap.Info(msg, fields...)
}

func (l zapLogger) Warn(msg string, fields ...Field) {
	l.zap.Warn(msg, fields...)
}

func (l zapLogger) Error(msg string, fields ...Field) {
	l.zap.Error(msg, fields...)
}

func New(namespace string) Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.InitialFields = map[string]interface{}{
		"namespace": namespace,
	}
	z, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return zapLogger{zap: z}
}

type nopLogger struct{}

func (nopLogger) Info(string, ...Field)  {}
func (nopLogger) Warn(string, ...Field)  {}
func (nopLogger) Error(string, ...Field) {}

// Nop returns a logger that discards everything. Used in tests.
func Nop() Logger {
	return nopLogger{}
}
