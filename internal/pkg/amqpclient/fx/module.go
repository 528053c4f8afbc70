package fx

import (
	"keydoctor/internal/pkg/amqpclient"

	"go.uber.org/fx"
)

var Module = fx.Module(
	"amqp",
	fx.Provide(amqpclient.NewAMQP),
)
