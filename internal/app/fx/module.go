package fx

import (
	"go.uber.org/fx"

	cachefx "keydoctor/cache/fx"
	dbfx "keydoctor/db/fx"
	diagnosefx "keydoctor/internal/diagnose/fx"
	eventsfx "keydoctor/internal/events/fx"
	historyfx "keydoctor/internal/history/fx"
	amqpfx "keydoctor/internal/pkg/amqpclient/fx"
	probefx "keydoctor/internal/probe/fx"
)

// DiagnoseOptions wires the runner with its prober, probe guard and
// observers. Every backend is optional and stays off until configured.
var DiagnoseOptions = fx.Options(
	dbfx.Module,
	cachefx.Module,
	amqpfx.Module,
	historyfx.Module,
	eventsfx.Module,
	probefx.Module,
	diagnosefx.Module,
)
