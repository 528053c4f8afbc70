package db

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"keydoctor/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	// Turso "remote only" driver (no embedded replicas)
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Driver names registered by the imported database/sql drivers.
const (
	DriverPostgres = "pgx"
	DriverLibSQL   = "libsql"
	DriverSQLite   = "sqlite"
)

var ErrDisabled = errors.New("probe history disabled: set DB_HOST/DB_NAME, TURSO_SQLITE_DSN or SQLITE_PATH")

type NewSQLXDBParams struct {
	fx.In

	Lc     fx.Lifecycle
	Cfg    *config.Config
	Logger *zap.SugaredLogger
}

// NewSQLXDB opens the probe history database. It returns a nil *sqlx.DB
// when no backend is configured; callers treat that as ErrDisabled.
func NewSQLXDB(p NewSQLXDBParams) (*sqlx.DB, error) {
	driver, dsn := Target(p.Cfg)
	if driver == "" {
		p.Logger.Infow("history_db_disabled")
		return nil, nil
	}

	db, err := Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := db.PingContext(pingCtx); err != nil {
				_ = db.Close()
				return fmt.Errorf("ping %s db: %w", driver, err)
			}
			p.Logger.Infow("history_db_enabled", append([]any{"driver", driver}, DSNLogFields(dsn)...)...)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := db.Close(); err != nil {
				p.Logger.Warnw("history db close failed", "err", err)
			}
			return nil
		},
	})

	return db, nil
}

// Target picks the history backend in order: Postgres, Turso, local sqlite.
// An empty driver means history is disabled.
func Target(cfg *config.Config) (driver, dsn string) {
	if cfg == nil {
		return "", ""
	}
	if strings.TrimSpace(cfg.DBHost) != "" && strings.TrimSpace(cfg.DBName) != "" {
		return DriverPostgres, postgresDSN(cfg)
	}
	if dsn := tursoDSN(cfg); dsn != "" {
		return DriverLibSQL, dsn
	}
	if path := strings.TrimSpace(cfg.SQLitePath); path != "" {
		return DriverSQLite, sqliteDSN(path)
	}
	return "", ""
}

// Open opens a pool sized for the driver. Nothing is dialed until first use.
func Open(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", driver, err)
	}

	switch driver {
	case DriverSQLite:
		// One writer; also keeps :memory: databases on a single connection.
		db.SetMaxOpenConns(1)
	case DriverLibSQL:
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	default:
		db.SetMaxOpenConns(10)
		db.SetConnMaxIdleTime(5 * time.Minute)
	}

	return db, nil
}

func postgresDSN(cfg *config.Config) string {
	u := &url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", cfg.DBHost, cfg.DBPort),
		Path:   cfg.DBName,
	}
	if strings.TrimSpace(cfg.DBUser) != "" {
		if cfg.DBPassword == "" {
			u.User = url.User(cfg.DBUser)
		} else {
			u.User = url.UserPassword(cfg.DBUser, cfg.DBPassword)
		}
	}
	return u.String()
}

// DSNLogFields describes a DSN without its credentials.
func DSNLogFields(dsn string) []any {
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		return []any{"dsn", "unparseable"}
	}
	if u.Scheme == "file" {
		return []any{"scheme", u.Scheme, "path", u.Opaque + u.Path}
	}
	return []any{"scheme", u.Scheme, "host", u.Host}
}
