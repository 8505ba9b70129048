package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Field = zapcore.Field

var (
	Int    = zap.Int
	Int64  = zap.Int64
	Uint64 = zap.Uint64
	String = zap.String
	Error  = zap.Error
	Any    = zap.Any
)
