package utils

import (
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/dvrpc/traffic-counts-api/config"
)

var (
	// Logger is the global structured logger
	Logger = zap.NewNop()
	// Sugar is a sugared logger for convenience
	Sugar = Logger.Sugar()
)

// RotationConfig describes a lumberjack rolling file.
type RotationConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func rotationFrom(cfg config.AppConfig, path string) RotationConfig {
	return RotationConfig{
		Path:       path,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	}
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     timeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// rollingSink opens the rotating file behind path, creating its directory.
func rollingSink(rc RotationConfig) zapcore.WriteSyncer {
	if dir := filepath.Dir(rc.Path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   rc.Path,
		MaxSize:    nz(rc.MaxSizeMB, 100), // megabytes
		MaxBackups: nz(rc.MaxBackups, 3),
		MaxAge:     nz(rc.MaxAgeDays, 7), // days
		Compress:   rc.Compress,
	})
}

// InitLogger tees a JSON logger to stdout and, when LogPath is set, a rolling file.
func InitLogger(cfg config.AppConfig) error {
	level := parseLevel(cfg.LogLevel)
	enc := zapcore.NewJSONEncoder(encoderConfig())

	cores := []zapcore.Core{
		zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), atOrAbove(level)),
	}
	if cfg.LogPath != "" {
		cores = append(cores, zapcore.NewCore(enc.Clone(), rollingSink(rotationFrom(cfg, cfg.LogPath)), atOrAbove(level)))
	}

	opts := []zap.Option{zap.AddCaller()}
	if cfg.LogLevel == "debug" {
		opts = append(opts, zap.Development())
	}
	SetLogger(zap.New(zapcore.NewTee(cores...), opts...))
	return nil
}

// SetLogger replaces the global loggers.
func SetLogger(l *zap.Logger) {
	Logger = l
	Sugar = l.Sugar()
}

// NewRollingFileLogger builds a file-only logger, used for the HTTP access log.
// Without a path it falls back to stdout.
func NewRollingFileLogger(cfg config.AppConfig, path string) *zap.Logger {
	enc := zapcore.NewJSONEncoder(encoderConfig())
	sink := zapcore.AddSync(os.Stdout)
	if path != "" {
		sink = rollingSink(rotationFrom(cfg, path))
	}
	return zap.New(zapcore.NewCore(enc, sink, atOrAbove(parseLevel(cfg.LogLevel))))
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func atOrAbove(level zapcore.Level) zapcore.LevelEnabler {
	return zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l >= level })
}

func nz(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
