package logs

import (
	"context"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"keydoctor/config"
)

// NewLogger builds the process logger. Output goes to stderr so console
// findings on stdout stay clean.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	level := "info"
	if cfg != nil {
		level = cfg.LogLevel
	}

	zcfg := zap.NewProductionConfig()
	if cfg != nil && cfg.ENV == config.Dev {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(levelFromString(level))
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	return zcfg.Build()
}

func NewSugaredLogger(l *zap.Logger) *zap.SugaredLogger {
	return l.Sugar()
}

func RegisterLifecycle(lc fx.Lifecycle, l *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = l.Sync()
			return nil
		},
	})
}

func levelFromString(raw string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "off", "none":
		return zapcore.FatalLevel + 1
	default:
		return zapcore.InfoLevel
	}
}
