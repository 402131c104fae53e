// Package logger holds the process-wide structured logger.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log = zap.NewNop()

// LogLevel represents the logging level.
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// Init builds the logger. Development mode uses the console encoder;
// otherwise JSON lines are written to stderr.
func Init(development bool, level LogLevel) error {
	var config zap.Config
	if development {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}
	config.OutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(toZapLevel(level))

	l, err := config.Build()
	if err != nil {
		return err
	}
	log = l
	return nil
}

func toZapLevel(level LogLevel) zapcore.Level {
	switch level {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Get returns the logger instance. Before Init it is a no-op logger.
func Get() *zap.Logger {
	return log
}

// Set replaces the logger, mainly so tests can observe output.
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	log = l
}

// Sync flushes any buffered log entries.
func Sync() error {
	return log.Sync()
}
