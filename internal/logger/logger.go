// Package logger builds the application's structured zap logger.
package logger

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON logger writing to stdout at the given level.
func New(level string) *zap.Logger {
	return NewWithWriter(level, os.Stdout)
}

// NewWithWriter returns a JSON logger writing one object per line to w.
// An unrecognized level falls back to info and logs a warning.
func NewWithWriter(level string, w io.Writer) *zap.Logger {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	invalid := err != nil || level == ""
	if invalid {
		lvl = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.MessageKey = "msg"
	encCfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(w), lvl)
	log := zap.New(core)

	if invalid && level != "" {
		log.Warn("invalid log level configured, using default level",
			zap.String("configured_level", level),
			zap.String("default_level", "info"))
	}
	return log
}
