package fx

import (
	"go.uber.org/fx"

	"keydoctor/internal/app/diagnostics"
	"keydoctor/internal/router"
)

var Module = fx.Options(
	fx.Provide(
		router.AsRoute(diagnostics.NewHandler),
		router.AsRoute(diagnostics.NewHistoryHandler),
	),
)
