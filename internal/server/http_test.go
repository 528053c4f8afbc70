package server

import (
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"keydoctor/config"
)

func TestNewHTTPServer(t *testing.T) {
	mux := chi.NewRouter()
	srv := NewHTTPServer(&config.Config{AppPort: 8501}, mux)

	assert.Equal(t, ":8501", srv.Addr)
	assert.Same(t, mux, srv.Handler)
	assert.Greater(t, srv.WriteTimeout, srv.ReadTimeout)
}
