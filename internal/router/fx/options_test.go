package fx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"keydoctor/config"
	"keydoctor/internal/router"
)

type pingHandler struct{}

func (pingHandler) RegisterRoute(r *chi.Mux) { r.Get("/ping", pingHandler{}.Handle) }

func (pingHandler) Handle(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) }

func TestNewMux_CORSPreflight_AllowsLocalhostInDev(t *testing.T) {
	cfg := &config.Config{ENV: config.Dev}

	r := NewMux(muxParams{Cfg: cfg, Logger: zap.NewNop().Sugar()})

	req := httptest.NewRequest(http.MethodOptions, "/v1/probe", nil)
	req.Header.Set("Origin", "http://localhost:8501")
	req.Header.Set("Access-Control-Request-Method", "POST")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:8501", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Methods"))
}

func TestNewMux_NoCORSInProductionByDefault(t *testing.T) {
	cfg := &config.Config{ENV: config.Production}

	r := NewMux(muxParams{Cfg: cfg, Logger: zap.NewNop().Sugar()})

	req := httptest.NewRequest(http.MethodOptions, "/v1/probe", nil)
	req.Header.Set("Origin", "http://localhost:8501")
	req.Header.Set("Access-Control-Request-Method", "POST")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewMux_ConfiguredOrigins(t *testing.T) {
	cfg := &config.Config{ENV: config.Production, CORSAllowedOrigins: []string{"https://ops.example.com"}}

	enabled, origins := corsOrigins(cfg)
	require.True(t, enabled)
	assert.Equal(t, []string{"https://ops.example.com"}, origins)
}

func TestNewMux_RegistersHandlers(t *testing.T) {
	r := NewMux(muxParams{
		Cfg:      &config.Config{ENV: config.Test},
		Logger:   zap.NewNop().Sugar(),
		Handlers: []router.Handler{pingHandler{}},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}
