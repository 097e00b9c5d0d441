// Package logger builds the zap loggers shared by the API and the web frontend
// and carries request ids through contexts.
package logger

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config represents logger configuration
type Config struct {
	Level          string // debug, info, warn, error
	Format         string // json, console
	OutputPath     string // stdout, stderr, or file path
	EnableSampling bool
	ServiceName    string
	ServiceVersion string
	Environment    string
	Component      string // api or web; becomes the logger name
	Rotation       Rotation
}

// Rotation controls file output. Zero values fall back to the defaults below.
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

const (
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 3
	defaultMaxAgeDays = 28
)

// NewWithConfig creates a zap logger from cfg. An unknown level is an error.
func NewWithConfig(cfg Config) (*zap.Logger, error) {
	level, err := parseLogLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(newEncoder(cfg), writeSyncer(cfg.OutputPath, cfg.Rotation), level)
	if cfg.EnableSampling {
		// first 100 entries per second, then 1 in 10
		core = zapcore.NewSamplerWithOptions(core, time.Second, 100, 10)
	}

	l := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	if cfg.Component != "" {
		l = l.Named(cfg.Component)
	}

	return l.With(
		zap.String("service", cfg.ServiceName),
		zap.String("version", cfg.ServiceVersion),
		zap.String("environment", cfg.Environment),
	), nil
}

func newEncoder(cfg Config) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "timestamp"
	ec.MessageKey = "message"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeDuration = zapcore.SecondsDurationEncoder

	if cfg.Format == "json" {
		return zapcore.NewJSONEncoder(ec)
	}
	if cfg.Environment != "production" {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zapcore.NewConsoleEncoder(ec)
}

// parseLogLevel accepts zap's level names plus "warning". Empty means info.
func parseLogLevel(level string) (zapcore.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	switch level {
	case "":
		return zapcore.InfoLevel, nil
	case "warning":
		return zapcore.WarnLevel, nil
	}
	l, err := zapcore.ParseLevel(level)
	if err != nil {
		return l, fmt.Errorf("logger: unknown level %q", level)
	}
	return l, nil
}

func writeSyncer(outputPath string, r Rotation) zapcore.WriteSyncer {
	switch outputPath {
	case "stdout", "":
		return zapcore.Lock(os.Stdout)
	case "stderr":
		return zapcore.Lock(os.Stderr)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   outputPath,
		MaxSize:    orDefault(r.MaxSizeMB, defaultMaxSizeMB),
		MaxBackups: orDefault(r.MaxBackups, defaultMaxBackups),
		MaxAge:     orDefault(r.MaxAgeDays, defaultMaxAgeDays),
		Compress:   true,
	})
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// IsSyncNoise reports whether a Sync error comes from syncing a terminal,
// which zap surfaces but which carries no information.
func IsSyncNoise(err error) bool {
	msg := err.Error()
	return strings.HasSuffix(msg, "/dev/stdout: invalid argument") ||
		strings.HasSuffix(msg, "/dev/stderr: invalid argument") ||
		strings.Contains(msg, "inappropriate ioctl for device")
}
