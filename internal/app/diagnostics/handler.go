package diagnostics

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"slices"

	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"keydoctor/config"
	"keydoctor/internal/diagnose"
	"keydoctor/internal/pkg/render"
	"keydoctor/internal/router"
	"keydoctor/internal/ui"
)

// Handler serves the diagnostic page and its JSON twin. Every request
// reloads the secrets file; only POST routes press the test button.
type Handler struct {
	runner         *diagnose.Runner
	logger         *zap.SugaredLogger
	trustedOrigins []string
}

type NewHandlerParams struct {
	fx.In

	Cfg    *config.Config `optional:"true"`
	Runner *diagnose.Runner
	Logger *zap.SugaredLogger
}

func NewHandler(p NewHandlerParams) *Handler {
	h := &Handler{runner: p.Runner, logger: p.Logger}
	if p.Cfg != nil {
		h.trustedOrigins = p.Cfg.CORSAllowedOrigins
	}
	return h
}

func (h *Handler) RegisterRoute(r *chi.Mux) {
	r.Get("/", h.Handle)
	r.Get("/v1/diagnostics", h.HandleReport)

	// Pressing the button spends a live API call.
	r.With(h.sameOrigin).Post("/probe", h.HandleProbePage)
	r.With(h.sameOrigin).Post("/v1/probe", h.HandleProbeReport)
}

var errCrossOrigin = errors.New("cross-origin request refused")

// sameOrigin refuses requests whose Origin (or Referer, when Origin is
// absent) names another host, unless that origin is listed in
// CORS_ALLOWED_ORIGINS. Requests carrying neither header pass.
func (h *Handler) sameOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		src := r.Header.Get("Origin")
		if src == "" {
			src = r.Header.Get("Referer")
		}
		if src != "" && !h.trusted(src, r.Host) {
			h.logger.Warnw("diagnostics_cross_origin_refused", "origin", src, "path", r.URL.Path)
			render.Err(w, http.StatusForbidden, errCrossOrigin)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) trusted(src, host string) bool {
	u, err := url.Parse(src)
	if err != nil || u.Host == "" {
		return false
	}
	if u.Host == host {
		return true
	}
	return slices.Contains(h.trustedOrigins, u.Scheme+"://"+u.Host)
}

// Handle renders the page without probing.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, false)
}

func (h *Handler) HandleProbePage(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, true)
}

func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, false)
}

func (h *Handler) HandleProbeReport(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, true)
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request, clicked bool) {
	rec := ui.NewRecorder(clicked)
	h.runner.Run(r.Context(), rec)

	var title string
	findings := rec.Visible()
	if len(findings) > 0 && findings[0].Kind == ui.KindTitle {
		title = findings[0].Text
	}

	var buf bytes.Buffer
	if err := renderPage(&buf, pageData{
		Title:       title,
		Findings:    findings,
		ShowButton:  rec.Has(ui.KindButton),
		ButtonLabel: buttonLabel(rec),
		SecretsPath: h.runner.SecretsPath(),
	}); err != nil {
		h.logger.Errorw("diagnostics_page_render_failed", "err", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	render.HTML(w, http.StatusOK, buf.Bytes())
}

type reportResponse struct {
	Found     bool         `json:"found"`
	Probed    bool         `json:"probed"`
	Outcome   string       `json:"outcome,omitempty"`
	ErrorKind string       `json:"error_kind,omitempty"`
	Findings  []ui.Finding `json:"findings"`
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request, clicked bool) {
	rec := ui.NewRecorder(clicked)
	out := h.runner.Run(r.Context(), rec)

	resp := reportResponse{
		Found:    out.Found,
		Probed:   out.Probed,
		Findings: rec.Visible(),
	}
	if out.Probed {
		resp.Outcome = string(out.Result.Outcome)
		resp.ErrorKind = out.Result.Kind
	}

	render.JSON(w, http.StatusOK, resp)
}

func buttonLabel(rec *ui.Recorder) string {
	for _, f := range rec.Findings {
		if f.Kind == ui.KindButton {
			return f.Text
		}
	}
	return ""
}

var _ router.Handler = (*Handler)(nil)
