package cmd

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"keydoctor/db"
	dbfx "keydoctor/db/fx"
)

var migrateCommands = map[string]bool{
	"up":      true,
	"down":    true,
	"status":  true,
	"version": true,
	"redo":    true,
}

func newMigrateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|version|redo]",
		Short:     "Run probe history migrations with goose",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"up", "down", "status", "version", "redo"},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}
			if !migrateCommands[command] {
				_ = cmd.Help()
				return errUsage
			}

			var (
				conn   *sqlx.DB
				logger *zap.SugaredLogger
			)
			return withApp(cmd.Context(), root, func(ctx context.Context) error {
				if conn == nil {
					return fmt.Errorf("migrate %s: %w", command, db.ErrDisabled)
				}
				return db.Migrate(ctx, conn, command, logger)
			}, dbfx.Module, fx.Populate(&conn, &logger))
		},
	}
}
