// Package logger provides the structured logger shared by the engines, the
// store and the CLI.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.SugaredLogger.
type Logger struct {
	*zap.SugaredLogger
}

// Config holds logger configuration.
type Config struct {
	Level       string   `yaml:"level"` // debug, info, warn, error
	Development bool     `yaml:"development"`
	OutputPaths []string `yaml:"outputPaths"`
}

// New creates a Logger from configuration. Unknown levels fall back to info.
func New(cfg Config) (*Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var config zap.Config
	if cfg.Development {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}
	config.Level = zap.NewAtomicLevelAt(level)
	if len(cfg.OutputPaths) > 0 {
		config.OutputPaths = cfg.OutputPaths
	}

	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{zapLogger.Sugar()}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}

// Wrap adapts an existing zap logger, e.g. one built with zaptest.
func Wrap(l *zap.Logger) *Logger {
	if l == nil {
		return Nop()
	}
	return &Logger{l.Sugar()}
}

// Named returns a child logger with the given name segment.
func (l *Logger) Named(name string) *Logger {
	if l == nil {
		return Nop().Named(name)
	}
	return &Logger{l.SugaredLogger.Named(name)}
}

// With returns a child logger carrying the key/value pairs.
func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return Nop()
	}
	return &Logger{l.SugaredLogger.With(args...)}
}
