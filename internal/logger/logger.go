// Package logger builds the zap loggers used by the txfs command line tool.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a wrapper around zap.Logger which remembers its level so callers
// can skip building expensive debug fields.
type Logger struct {
	*zap.Logger
	level zap.AtomicLevel
}

// Config represents the configuration for a Logger.
type Config struct {
	// 0=Fatal, 1=Error, 2=Warn, 3=Info, 4+5=Debug
	Level     int8 `mapstructure:"log-level"`
	Developer bool `mapstructure:"log-developer"`
}

// New returns a new logger writing to stderr based on the provided
// configuration.
func New(cfg Config) (*Logger, error) {
	l := Logger{}

	// The development config gives us stack traces at warn and above.
	if cfg.Developer {
		l.level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		zapCfg := zap.NewDevelopmentConfig()
		zapCfg.Level = l.level
		zl, err := zapCfg.Build()
		if err != nil {
			return nil, err
		}
		l.Logger = zl
		return &l, nil
	}

	level, err := getLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	l.level = zap.NewAtomicLevelAt(level)

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.Lock(os.Stderr), l.level)
	l.Logger = zap.New(core)
	return &l, nil
}

// Level returns the current log level
func (l *Logger) Level() zapcore.Level {
	return l.level.Level()
}

// getLevel maps the numeric log levels of the command line to zap levels.
func getLevel(level int8) (zapcore.Level, error) {
	switch level {
	case 0:
		return zapcore.FatalLevel, nil
	case 1:
		return zapcore.ErrorLevel, nil
	case 2:
		return zapcore.WarnLevel, nil
	case 3:
		return zapcore.InfoLevel, nil
	case 4, 5:
		return zapcore.DebugLevel, nil
	default:
		// Return a sane level in case the error is ignored.
		return zapcore.InfoLevel, fmt.Errorf("the provided log level (%d) is invalid (must be 0-5)", level)
	}
}
