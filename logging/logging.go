// Package logging builds the zap loggers used by the host tools.
package logging

import (
	"log/slog"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where logs go
type Config struct {
	// Console writes human readable logs to stderr
	Console bool
	// File, when set, receives JSON logs rotated by lumberjack
	File    string
	Verbose bool
}

// NewEncoderConfig returns the encoder config shared by the console and file outputs
func NewEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// New returns a logger for cfg. With neither output enabled it returns a no-op logger.
func New(cfg Config) *zap.Logger {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if cfg.Verbose {
		level.SetLevel(zap.DebugLevel)
	}

	var cores []zapcore.Core
	if cfg.Console {
		encCfg := NewEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(os.Stderr),
			level,
		))
	}
	if cfg.File != "" {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(NewEncoderConfig()),
			zapcore.AddSync(NewRotatingFile(cfg.File)),
			level,
		))
	}

	if len(cores) == 0 {
		return zap.NewNop()
	}
	return zap.New(zapcore.NewTee(cores...))
}

// NewRotatingFile returns a size-rotated log file writer
func NewRotatingFile(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
}

// SetSlogDefault sends records from the default slog logger, which libraries like babyapi write
// request logs to, through logger's cores
func SetSlogDefault(logger *zap.Logger) {
	slog.SetDefault(slog.New(zapslog.NewHandler(logger.Core())))
}
