package fx

import (
	"go.uber.org/fx"

	"keydoctor/internal/app/health"
	"keydoctor/internal/router"
)

var Module = fx.Options(
	fx.Provide(router.AsRoute(health.NewHandler)),
)
