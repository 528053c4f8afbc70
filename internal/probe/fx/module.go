package fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"keydoctor/config"
	"keydoctor/internal/probe"
)

var Module = fx.Module(
	"anthropic-probe",
	fx.Provide(NewProber),
)

func NewProber(cfg *config.Config, log *zap.SugaredLogger) probe.Prober {
	var opts []probe.Option
	if cfg.AnthropicBaseURL != "" {
		log.Infow("anthropic_base_url_override", "base_url", cfg.AnthropicBaseURL)
		opts = append(opts, probe.WithBaseURL(cfg.AnthropicBaseURL))
	}
	return probe.NewAnthropicProber(opts...)
}
