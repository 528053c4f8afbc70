package health

import (
	"errors"
	"io/fs"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"

	"keydoctor/config"
	"keydoctor/internal/history"
	"keydoctor/internal/pkg/render"
)

// Handler reports liveness plus which optional backends are wired. It never
// reads the key itself.
type Handler struct {
	secretsFile string
	history     *history.Store
}

type NewHandlerParams struct {
	fx.In

	Cfg     *config.Config
	History *history.Store `optional:"true"`
}

func NewHandler(p NewHandlerParams) *Handler {
	h := &Handler{history: p.History, secretsFile: config.DefaultSecretsFile}
	if p.Cfg != nil && p.Cfg.SecretsFile != "" {
		h.secretsFile = p.Cfg.SecretsFile
	}
	return h
}

func (h *Handler) RegisterRoute(r *chi.Mux) {
	r.Get("/health", h.Handle)
}

type healthResponse struct {
	OK             bool   `json:"ok"`
	SecretsFile    string `json:"secrets_file"`
	SecretsPresent bool   `json:"secrets_present"`
	History        bool   `json:"history"`
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	_, err := os.Stat(h.secretsFile)
	render.JSON(w, http.StatusOK, healthResponse{
		OK:             true,
		SecretsFile:    h.secretsFile,
		SecretsPresent: err == nil || !errors.Is(err, fs.ErrNotExist),
		History:        h.history != nil && h.history.Enabled(),
	})
}
