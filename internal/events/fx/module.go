package fx

import (
	"keydoctor/internal/events"
	"keydoctor/internal/probe"

	"go.uber.org/fx"
)

var Module = fx.Module(
	"probe-events",
	fx.Provide(
		events.NewPublisher,
		fx.Annotate(
			func(p *events.Publisher) probe.Observer { return p },
			fx.ResultTags(`group:"probe_observers"`),
		),
	),
)
