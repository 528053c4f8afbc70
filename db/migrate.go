package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"keydoctor/db/migrations"
)

// Migrate runs a goose command ("up", "down", "status", ...) against db
// using the embedded migrations.
func Migrate(ctx context.Context, db *sqlx.DB, cmd string, log *zap.SugaredLogger) error {
	if db == nil {
		return ErrDisabled
	}

	if err := goose.SetDialect(GooseDialect(db.DriverName())); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{log: log})

	cmd = strings.TrimSpace(cmd)
	log.Infow("goose_run_start", "cmd", cmd, "driver", db.DriverName())
	if err := goose.RunContext(ctx, cmd, db.DB, "."); err != nil {
		return fmt.Errorf("goose run %q: %w", cmd, err)
	}
	log.Infow("goose_run_done", "cmd", cmd)
	return nil
}

func GooseDialect(driver string) string {
	if driver == DriverPostgres {
		return "postgres"
	}
	return "sqlite3"
}

type gooseLogger struct {
	log *zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Infof(strings.TrimSuffix(format, "\n"), v...)
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Fatalf(strings.TrimSuffix(format, "\n"), v...)
}
