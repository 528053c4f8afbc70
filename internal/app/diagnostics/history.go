package diagnostics

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"keydoctor/internal/history"
	"keydoctor/internal/pkg/render"
	"keydoctor/internal/router"
)

type HistoryHandler struct {
	store  *history.Store
	logger *zap.SugaredLogger
}

type NewHistoryHandlerParams struct {
	fx.In

	Store  *history.Store
	Logger *zap.SugaredLogger
}

func NewHistoryHandler(p NewHistoryHandlerParams) *HistoryHandler {
	return &HistoryHandler{store: p.Store, logger: p.Logger}
}

func (h *HistoryHandler) RegisterRoute(r *chi.Mux) {
	r.Get("/v1/probes", h.Handle)
}

type historyResponse struct {
	Probes []history.Record `json:"probes"`
}

func (h *HistoryHandler) Handle(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			render.Err(w, http.StatusBadRequest, errors.New("limit must be a positive integer"))
			return
		}
		limit = n
	}

	recs, err := h.store.Recent(r.Context(), limit)
	if err != nil {
		if history.IsDisabled(err) {
			render.Err(w, http.StatusServiceUnavailable, err)
			return
		}
		h.logger.Errorw("probe_history_query_failed", "err", err)
		render.Err(w, http.StatusInternalServerError, errors.New("failed to load probe history"))
		return
	}

	render.JSON(w, http.StatusOK, historyResponse{Probes: recs})
}

var _ router.Handler = (*HistoryHandler)(nil)
