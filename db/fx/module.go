package fx

import (
	"keydoctor/db"

	"go.uber.org/fx"
)

var Module = fx.Module(
	"sqlx-history-db",
	fx.Provide(db.NewSQLXDB),
)
