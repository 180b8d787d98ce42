package util

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger from ENV: JSON in production, a
// discarding logger in tests and coloured console output otherwise.
func NewLogger(env string) *zap.SugaredLogger {
	switch env {
	case "production":
		return zap.Must(zap.NewProduction()).Sugar()
	case "test":
		return zap.NewNop().Sugar()
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zap.Must(cfg.Build()).Sugar()
}
