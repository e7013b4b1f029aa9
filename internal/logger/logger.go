// Package logger builds the zap logger. Output goes to a file because the
// terminal belongs to the TUI.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"studentdesk/internal/config"
)

// New returns a logger writing to cfg.File. An empty File discards output.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	if cfg.File == "" {
		return zap.NewNop(), nil
	}

	zapCfg := zap.NewProductionConfig()
	switch cfg.Format {
	case "console":
		zapCfg.Encoding = "console"
	default:
		zapCfg.Encoding = "json"
	}

	if cfg.Level != "" {
		if err := zapCfg.Level.UnmarshalText([]byte(cfg.Level)); err != nil {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
	}

	zapCfg.OutputPaths = []string{cfg.File}
	zapCfg.ErrorOutputPaths = []string{cfg.File}
	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapCfg.Build()
}
