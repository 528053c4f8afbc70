package diagnostics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"keydoctor/config"
	"keydoctor/db"
	"keydoctor/internal/credential"
	"keydoctor/internal/diagnose"
	"keydoctor/internal/history"
	"keydoctor/internal/probe"
	"keydoctor/internal/ui"
)

type stubProber struct {
	calls  int
	result probe.Result
}

func (s *stubProber) Probe(context.Context, string) probe.Result {
	s.calls++
	return s.result
}

func newHandler(store config.MapStore, p probe.Prober, observers ...probe.Observer) *Handler {
	runner := diagnose.NewRunner(diagnose.NewRunnerParams{
		Cfg:       &config.Config{SecretsFile: config.DefaultSecretsFile},
		Logger:    zap.NewNop().Sugar(),
		Prober:    p,
		Loader:    func(string) (config.Store, error) { return store, nil },
		Observers: observers,
	})
	return NewHandler(NewHandlerParams{Runner: runner, Logger: zap.NewNop().Sugar()})
}

func TestPage_RendersFindingsWithoutProbing(t *testing.T) {
	p := &stubProber{}
	h := newHandler(config.MapStore{credential.Key: "sk-ant-api03-page"}, p)

	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "API Key Diagnostic Tool")
	assert.Contains(t, body, "The API key format is valid")
	assert.Contains(t, body, `<form method="post" action="/probe">`)
	assert.Contains(t, body, "Run API test")
	assert.Zero(t, p.calls)
}

func TestPage_MissingKeyShowsSetupWithoutButton(t *testing.T) {
	h := newHandler(config.MapStore{}, &stubProber{})

	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodGet, "/", nil))

	body := w.Body.String()
	assert.Contains(t, body, "ANTHROPIC_API_KEY was not found in .streamlit/secrets.toml")
	assert.Contains(t, body, `<code class="language-toml">`)
	assert.NotContains(t, body, "<form")
}

func TestProbePage_ShowsResult(t *testing.T) {
	p := &stubProber{result: probe.Success("API test successful!")}
	h := newHandler(config.MapStore{credential.Key: "sk-ant-api03-page"}, p)

	w := httptest.NewRecorder()
	h.HandleProbePage(w, httptest.NewRequest(http.MethodPost, "/probe", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, p.calls)
	body := w.Body.String()
	assert.Contains(t, body, "API test succeeded!")
	assert.Contains(t, body, "<pre><code>API test successful!</code></pre>")
}

func TestReport_JSON(t *testing.T) {
	p := &stubProber{}
	h := newHandler(config.MapStore{credential.Key: "  sk-ant-api03-json"}, p)

	w := httptest.NewRecorder()
	h.HandleReport(w, httptest.NewRequest(http.MethodGet, "/v1/diagnostics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp reportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Found)
	assert.False(t, resp.Probed)
	assert.Empty(t, resp.Outcome)
	assert.Zero(t, p.calls)

	kinds := make([]ui.Kind, 0, len(resp.Findings))
	for _, f := range resp.Findings {
		kinds = append(kinds, f.Kind)
	}
	assert.Equal(t, []ui.Kind{
		ui.KindTitle,
		ui.KindSuccess,
		ui.KindInfo,
		ui.KindInfo,
		ui.KindError,
		ui.KindWarning,
		ui.KindCode,
		ui.KindCode,
	}, kinds)
}

func TestProbeReport_AuthFailure(t *testing.T) {
	p := &stubProber{result: probe.AuthFailure("401 invalid x-api-key")}
	h := newHandler(config.MapStore{credential.Key: "invalid-key-123"}, p)

	w := httptest.NewRecorder()
	h.HandleProbeReport(w, httptest.NewRequest(http.MethodPost, "/v1/probe", nil))

	var resp reportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Probed)
	assert.Equal(t, string(probe.OutcomeAuthFailure), resp.Outcome)
	assert.Equal(t, probe.KindAuthentication, resp.ErrorKind)
	assert.Equal(t, 1, p.calls)
}

func TestButtonRoutes_RefuseCrossOrigin(t *testing.T) {
	cases := []struct {
		name    string
		path    string
		header  string
		value   string
		status  int
		pressed bool
	}{
		{"page from other site", "/probe", "Origin", "https://evil.example", http.StatusForbidden, false},
		{"api from other site", "/v1/probe", "Origin", "https://evil.example", http.StatusForbidden, false},
		{"opaque origin", "/v1/probe", "Origin", "null", http.StatusForbidden, false},
		{"other site referer", "/probe", "Referer", "https://evil.example/page", http.StatusForbidden, false},
		{"same host origin", "/probe", "Origin", "http://example.com", http.StatusOK, true},
		{"same host referer", "/v1/probe", "Referer", "http://example.com/", http.StatusOK, true},
		{"trusted origin", "/v1/probe", "Origin", "https://ops.example.com", http.StatusOK, true},
		{"no origin headers", "/v1/probe", "", "", http.StatusOK, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &stubProber{result: probe.Success("API test successful!")}
			h := newHandler(config.MapStore{credential.Key: "sk-ant-api03-origin"}, p)
			h.trustedOrigins = []string{"https://ops.example.com"}
			mux := chi.NewRouter()
			h.RegisterRoute(mux)

			req := httptest.NewRequest(http.MethodPost, tc.path, nil)
			if tc.header != "" {
				req.Header.Set(tc.header, tc.value)
			}
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			if tc.pressed {
				assert.Equal(t, 1, p.calls)
			} else {
				assert.Zero(t, p.calls)
				assert.JSONEq(t, `{"error":"cross-origin request refused"}`, w.Body.String())
			}
		})
	}
}

func TestNewHandler_TrustsConfiguredOrigins(t *testing.T) {
	h := NewHandler(NewHandlerParams{
		Cfg:    &config.Config{CORSAllowedOrigins: []string{"https://ops.example.com"}},
		Logger: zap.NewNop().Sugar(),
	})

	assert.True(t, h.trusted("https://ops.example.com", "localhost:8080"))
	assert.True(t, h.trusted("http://localhost:8080", "localhost:8080"))
	assert.False(t, h.trusted("https://ops.example.com.evil", "localhost:8080"))
}

func TestHistory_Endpoint(t *testing.T) {
	conn, err := db.Open(db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.Migrate(context.Background(), conn, "up", zap.NewNop().Sugar()))

	store := history.NewStore(history.NewStoreParams{DB: conn, Logger: zap.NewNop().Sugar()})
	p := &stubProber{result: probe.OtherFailure(probe.KindOverloaded, "529 overloaded")}
	h := newHandler(config.MapStore{credential.Key: "sk-ant-api03-hist"}, p, store)

	for i := 0; i < 3; i++ {
		h.HandleProbeReport(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/probe", nil))
		time.Sleep(2 * time.Millisecond)
	}

	hh := NewHistoryHandler(NewHistoryHandlerParams{Store: store, Logger: zap.NewNop().Sugar()})
	w := httptest.NewRecorder()
	hh.Handle(w, httptest.NewRequest(http.MethodGet, "/v1/probes?limit=2", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp historyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Probes, 2)
	assert.Equal(t, probe.KindOverloaded, resp.Probes[0].ErrorKind)
	assert.Equal(t, credential.New("sk-ant-api03-hist").Fingerprint(), resp.Probes[0].Fingerprint)
	assert.False(t, strings.Contains(w.Body.String(), "sk-ant-api03-hist"))
}

func TestHistory_BadLimitAndDisabled(t *testing.T) {
	hh := NewHistoryHandler(NewHistoryHandlerParams{
		Store:  history.NewStore(history.NewStoreParams{}),
		Logger: zap.NewNop().Sugar(),
	})

	w := httptest.NewRecorder()
	hh.Handle(w, httptest.NewRequest(http.MethodGet, "/v1/probes?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	hh.Handle(w, httptest.NewRequest(http.MethodGet, "/v1/probes", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
