// Package diagnose runs the API key checks and the optional live probe,
// rendering each finding on a ui.Surface as it is computed.
package diagnose

import (
	"context"
	"errors"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"keydoctor/cache"
	"keydoctor/config"
	"keydoctor/internal/credential"
	"keydoctor/internal/probe"
	"keydoctor/internal/ui"
)

// SecretsLoader reads the secrets store at path. It is called on every run
// so edits to the file are picked up without a restart.
type SecretsLoader func(path string) (config.Store, error)

// LoadSecretsFile is the default SecretsLoader.
func LoadSecretsFile(path string) (config.Store, error) {
	return config.LoadSecrets(path)
}

type Runner struct {
	secretsPath string
	loadSecrets SecretsLoader
	prober      probe.Prober
	guard       cache.ProbeGuard
	observers   []probe.Observer
	logger      *zap.SugaredLogger
}

type NewRunnerParams struct {
	fx.In

	Cfg       *config.Config
	Logger    *zap.SugaredLogger
	Prober    probe.Prober
	Guard     cache.ProbeGuard `optional:"true"`
	Loader    SecretsLoader    `optional:"true"`
	Observers []probe.Observer `group:"probe_observers"`
}

func NewRunner(p NewRunnerParams) *Runner {
	r := &Runner{
		secretsPath: config.DefaultSecretsFile,
		loadSecrets: p.Loader,
		prober:      p.Prober,
		guard:       p.Guard,
		logger:      p.Logger,
	}
	if p.Cfg != nil && p.Cfg.SecretsFile != "" {
		r.secretsPath = p.Cfg.SecretsFile
	}
	if r.loadSecrets == nil {
		r.loadSecrets = LoadSecretsFile
	}
	if r.guard == nil {
		r.guard = cache.NewLocalGuard()
	}
	if r.logger == nil {
		r.logger = zap.NewNop().Sugar()
	}
	for _, o := range p.Observers {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
	return r
}

// SecretsPath is the store location the runner reads from.
func (r *Runner) SecretsPath() string {
	return r.secretsPath
}

// Outcome summarizes a run for callers that need more than the rendered
// findings.
type Outcome struct {
	Found      bool
	Credential credential.Credential
	Probed     bool
	Result     probe.Result
}

// Run performs one diagnostic pass. A missing key ends the run after the
// setup instructions; every other problem is reported and the run goes on.
func (r *Runner) Run(ctx context.Context, s ui.Surface) Outcome {
	s.Title(titleText)

	store, err := r.loadSecrets(r.secretsPath)
	if err != nil {
		r.logger.Warnw("secrets_unreadable", "path", r.secretsPath, "err", err)
		s.Error(msgUnreadable(r.secretsPath, err))
		s.Info(setupInstructions(r.secretsPath))
		return Outcome{}
	}

	cred, err := credential.Load(store)
	if err != nil {
		r.logger.Infow("credential_missing", "path", r.secretsPath)
		s.Error(msgNotFound(r.secretsPath))
		s.Info(setupInstructions(r.secretsPath))
		return Outcome{}
	}
	out := Outcome{Found: true, Credential: cred}

	s.Success(msgLoaded)
	s.Info(msgPreview(cred))
	s.Info(msgLength(cred))

	if cred.HasValidPrefix() {
		s.Success(msgFormatValid)
	} else {
		s.Error(msgFormatInvalid)
	}

	if cred.HasSurroundingWhitespace() {
		s.Warning(msgWhitespace)
		s.Code(codeOriginal(cred))
		s.Code(codeFixed(cred))
	} else {
		s.Success(msgNoWhitespace)
	}

	r.logger.Infow("credential_checked",
		"fingerprint", cred.Fingerprint(),
		"length", cred.Length(),
		"prefix_ok", cred.HasValidPrefix(),
		"whitespace", cred.HasSurroundingWhitespace(),
	)

	if !s.Button(buttonLabel) {
		return out
	}

	out.Result, out.Probed = r.Probe(ctx, s, cred)
	return out
}

// Probe makes the single live call with the effective key and renders the
// classified result. It reports false when no call was made because another
// probe for the same key is in flight.
func (r *Runner) Probe(ctx context.Context, s ui.Surface, cred credential.Credential) (probe.Result, bool) {
	fp := cred.Fingerprint()

	release, err := r.guard.Acquire(ctx, fp)
	switch {
	case errors.Is(err, cache.ErrProbeInFlight):
		r.logger.Infow("probe_skipped_in_flight", "fingerprint", fp)
		s.Info(msgProbeBusy)
		return probe.Result{}, false
	case err != nil:
		r.logger.Warnw("probe_guard_unavailable", "fingerprint", fp, "err", err)
		release = func() {}
	}
	defer release()

	res, took := r.call(ctx, s, cred)
	renderResult(s, res)
	r.notify(ctx, probe.NewEvent(fp, res, took))
	return res, true
}

func (r *Runner) call(ctx context.Context, s ui.Surface, cred credential.Credential) (probe.Result, time.Duration) {
	stop := s.Spinner(spinnerLabel)
	defer stop()

	r.logger.Infow("probe_started", "fingerprint", cred.Fingerprint(), "model", probe.Model)
	res, took := probe.Safe(ctx, r.prober, cred.Effective())
	r.logger.Infow("probe_finished",
		"fingerprint", cred.Fingerprint(),
		"outcome", res.Outcome,
		"kind", res.Kind,
		"duration", took.Round(time.Millisecond).String(),
	)
	return res, took
}

func (r *Runner) notify(ctx context.Context, ev probe.Event) {
	for _, o := range r.observers {
		if err := o.ObserveProbe(ctx, ev); err != nil {
			r.logger.Warnw("probe_observer_failed", "event_id", ev.ID, "err", err)
		}
	}
}

func renderResult(s ui.Surface, res probe.Result) {
	switch res.Outcome {
	case probe.OutcomeSuccess:
		s.Success(msgProbeSucceeded)
		s.Code(res.Text)
	case probe.OutcomeAuthFailure:
		s.Error(msgAuthFailed)
		s.Error(msgDetail(res.Detail))
		s.Warning(authRemediation)
	default:
		s.Error(msgOtherFailure(res.Kind))
		s.Error(msgDetail(res.Detail))
	}
}
