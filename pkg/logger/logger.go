// Package logger builds the zap logger shared by both front ends.
package logger

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-formfill/pkg/config"
)

// New builds a logger from cfg. Production uses the zap production preset,
// everything else the development one.
func New(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg != nil && cfg.Env == config.EnvProduction {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	format, level := "", ""
	if cfg != nil {
		format, level = cfg.Log.Format, cfg.Log.Level
	}

	switch format {
	case "console":
		zapCfg.Encoding = "console"
	default:
		zapCfg.Encoding = "json"
	}

	if level != "" {
		if err := zapCfg.Level.UnmarshalText([]byte(level)); err != nil {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
	}

	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapCfg.Build()
}

// RequestFields are the fields logged for every HTTP request.
func RequestFields(r *http.Request, status int, latency time.Duration, sessionID string) []zap.Field {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Duration("latency", latency),
		zap.String("ip", r.RemoteAddr),
	}
	if sessionID != "" {
		fields = append(fields, zap.String("session_id", sessionID))
	}
	return fields
}
