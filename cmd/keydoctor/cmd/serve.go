package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	diagnosticsfx "keydoctor/internal/app/diagnostics/fx"
	appfx "keydoctor/internal/app/fx"
	healthfx "keydoctor/internal/app/health/fx"
	routerfx "keydoctor/internal/router/fx"
	serverfx "keydoctor/internal/server/fx"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagnostic page and JSON API on APP_PORT",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(
				appOptions(root,
					appfx.DiagnoseOptions,
					routerfx.CoreRouterOptions,
					serverfx.Module,
					healthfx.Module,
					diagnosticsfx.Module,
				),
			)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
}
