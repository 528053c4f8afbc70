package fx

import (
	"keydoctor/internal/history"
	"keydoctor/internal/probe"

	"go.uber.org/fx"
)

var Module = fx.Module(
	"probe-history",
	fx.Provide(
		history.NewStore,
		fx.Annotate(
			func(s *history.Store) probe.Observer { return s },
			fx.ResultTags(`group:"probe_observers"`),
		),
	),
)
