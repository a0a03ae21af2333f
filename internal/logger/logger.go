package logger

import (
	"io"
	"os"
	"strings"

	"github.com/jonesinator/crabigator/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the object-logging surface shared by the watcher, the client and
// the publishers.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

// Package-level logger to be used across packages after Init.
var S *zap.SugaredLogger

// Init builds the process logger from config and installs it as S.
func Init(cfg *config.Config) (*ZapLogger, error) {
	level := "info"
	if cfg != nil {
		level = cfg.LogLevel
	}
	l := New(level, os.Stdout)
	S = l.sugar
	return l, nil
}

// New builds a JSON logger writing to w at the named level.
func New(level string, w io.Writer) *ZapLogger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(zapcore.AddSync(w)),
		parseLevel(level),
	)

	l := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	return &ZapLogger{sugar: l.Sugar()}
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Close flushes any buffered loggers.
func Close() error {
	if S == nil {
		return nil
	}
	return S.Sync()
}

// ZapLogger implements Logger on top of zap, logging obj as a structured
// field named key.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

func (l *ZapLogger) InfoObj(msg, key string, obj interface{}) {
	l.sugar.Desugar().Info(msg, zap.Any(key, obj))
}

func (l *ZapLogger) DebugObj(msg, key string, obj interface{}) {
	l.sugar.Desugar().Debug(msg, zap.Any(key, obj))
}

func (l *ZapLogger) WarnObj(msg, key string, obj interface{}) {
	l.sugar.Desugar().Warn(msg, zap.Any(key, obj))
}

func (l *ZapLogger) ErrorObj(msg, key string, obj interface{}) {
	l.sugar.Desugar().Error(msg, zap.Any(key, obj))
}

// Sync flushes the underlying core.
func (l *ZapLogger) Sync() error { return l.sugar.Sync() }

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) InfoObj(string, string, interface{})  {}
func (NopLogger) DebugObj(string, string, interface{}) {}
func (NopLogger) WarnObj(string, string, interface{})  {}
func (NopLogger) ErrorObj(string, string, interface{}) {}

// Minimal object logging helpers on the package-level logger -----------------

func InfoObj(msg, key string, obj interface{}) {
	if S == nil {
		return
	}
	S.Desugar().Info(msg, zap.Any(key, obj))
}

func DebugObj(msg, key string, obj interface{}) {
	if S == nil {
		return
	}
	S.Desugar().Debug(msg, zap.Any(key, obj))
}

func WarnObj(msg, key string, obj interface{}) {
	if S == nil {
		return
	}
	S.Desugar().Warn(msg, zap.Any(key, obj))
}

func ErrorObj(msg, key string, obj interface{}) {
	if S == nil {
		return
	}
	S.Desugar().Error(msg, zap.Any(key, obj))
}
