package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap's SugaredLogger.
type Logger struct {
	*zap.SugaredLogger
}

// defaultZapLevel defines the fallback log level when an unknown level string is provided.
const defaultZapLevel = zapcore.InfoLevel

// toZapLevel converts a textual level to zapcore.Level using known level constants.
func toZapLevel(levelStr string) zapcore.Level {
	switch levelStr {
	case DebugLevel:
		return zapcore.DebugLevel
	case InfoLevel:
		return zapcore.InfoLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return defaultZapLevel
	}
}

// newCore builds a zapcore.Core writing to w, console-encoded unless format is json.
func newCore(w io.Writer, level zapcore.Level, format string) zapcore.Core {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder

	var encoder zapcore.Encoder
	if format == JSONFormat {
		encoder = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg.TimeKey = ""
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
	}
	ws := zapcore.Lock(zapcore.AddSync(w))
	return zapcore.NewCore(encoder, ws, zap.NewAtomicLevelAt(level))
}

// newZapLogger constructs a sugared zap logger on stdout.
func newZapLogger(levelStr, format string) *Logger {
	return newWithWriter(os.Stdout, levelStr, format)
}

func newWithWriter(w io.Writer, levelStr, format string) *Logger {
	core := newCore(w, toZapLevel(levelStr), format)
	return &Logger{
		SugaredLogger: zap.New(core).Sugar(),
	}
}
