package fx

import (
	"go.uber.org/fx"

	"keydoctor/internal/diagnose"
)

var Module = fx.Module(
	"diagnose",
	fx.Provide(diagnose.NewRunner),
)
