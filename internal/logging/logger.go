package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sanspareilsmyn/pixellens/internal/config"
)

// NewLogger builds a zap logger from the log configuration. Console output
// writes human-readable lines; file output, when enabled, writes JSON through
// a lumberjack rotating writer. Both sinks may be active at once.
func NewLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
		fmt.Fprintf(os.Stderr, "WARN: invalid log level %q, defaulting to INFO\n", cfg.Level)
		level = zapcore.InfoLevel
	}

	var cores []zapcore.Core

	if strings.ToLower(cfg.Format) == "console" {
		cores = append(cores, consoleCore(level))
	}

	if cfg.FileLoggingEnabled {
		fileCore, err := rotatingFileCore(cfg, level)
		if err != nil {
			return nil, err
		}
		cores = append(cores, fileCore)
	}

	if len(cores) == 0 {
		return nil, fmt.Errorf("no logging outputs configured (neither console nor file enabled)")
	}

	opts := []zap.Option{zap.AddCaller(), zap.AddCallerSkip(1)}
	if level == zapcore.DebugLevel {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	} else {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	return zap.New(zapcore.NewTee(cores...), opts...), nil
}

// consoleCore routes warnings and below to stdout and errors to stderr, with
// colored level tags for interactive use.
func consoleCore(level zapcore.Level) zapcore.Core {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	enc := zapcore.NewConsoleEncoder(encCfg)

	stdout := zapcore.Lock(os.Stdout)
	stderr := zapcore.Lock(os.Stderr)

	below := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= level && l < zapcore.ErrorLevel
	})
	above := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= level && l >= zapcore.ErrorLevel
	})

	return zapcore.NewTee(
		zapcore.NewCore(enc, stdout, below),
		zapcore.NewCore(enc, stderr, above),
	)
}

// rotatingFileCore writes JSON log lines into a size/age-rotated file.
func rotatingFileCore(cfg config.LogConfig, level zapcore.Level) (zapcore.Core, error) {
	if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %q: %w", cfg.Directory, err)
	}

	writer := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Directory, cfg.Filename),
		MaxSize:    cfg.MaxSize,    // megabytes
		MaxBackups: cfg.MaxBackups, // files
		MaxAge:     cfg.MaxAge,     // days
		Compress:   cfg.Compress,
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	return zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(writer), level), nil
}
