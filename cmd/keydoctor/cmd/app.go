package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"keydoctor/config"
	appfx "keydoctor/internal/app/fx"
)

const (
	startTimeout = 30 * time.Second
	stopTimeout  = 15 * time.Second
)

func fxLogger(logger *zap.Logger) fxevent.Logger {
	l := &fxevent.ZapLogger{Logger: logger}
	l.UseLogLevel(zapcore.DebugLevel)
	return l
}

// appOptions assembles the fx graph shared by every command, applying the
// --secrets override on top of the loaded config.
func appOptions(root *rootOptions, opts ...fx.Option) fx.Option {
	all := []fx.Option{
		fx.WithLogger(fxLogger),
		appfx.CoreAppOptions,
	}
	if path := strings.TrimSpace(root.secrets); path != "" {
		all = append(all, fx.Decorate(func(cfg *config.Config) *config.Config {
			out := *cfg
			out.SecretsFile = path
			return &out
		}))
	}
	return fx.Options(append(all, opts...)...)
}

// withApp starts a short-lived fx app, runs fn and stops the app again.
func withApp(ctx context.Context, root *rootOptions, fn func(context.Context) error, opts ...fx.Option) error {
	app := fx.New(appOptions(root, opts...))
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, startCancel := context.WithTimeout(ctx, startTimeout)
	defer startCancel()
	if err := app.Start(startCtx); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	runErr := fn(ctx)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil && runErr == nil {
		return fmt.Errorf("stop: %w", err)
	}
	return runErr
}
