package render

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusCreated, map[string]int{"n": 1})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"n":1}`, w.Body.String())
}

func TestErr(t *testing.T) {
	w := httptest.NewRecorder()

	Err(w, http.StatusServiceUnavailable, errors.New("history disabled"))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"error":"history disabled"}`, w.Body.String())

	w = httptest.NewRecorder()
	Err(w, http.StatusInternalServerError, nil)
	assert.JSONEq(t, `{"error":"unknown error"}`, w.Body.String())
}

func TestHTML(t *testing.T) {
	w := httptest.NewRecorder()

	HTML(w, http.StatusOK, []byte("<h1>ok</h1>"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, "<h1>ok</h1>", w.Body.String())
}

func TestMarkdown(t *testing.T) {
	assert.Empty(t, Markdown(""))

	out := string(Markdown("Create `.streamlit/secrets.toml`\n\n```toml\nANTHROPIC_API_KEY = \"x\"\n```"))
	assert.Contains(t, out, "<code>.streamlit/secrets.toml</code>")
	assert.Contains(t, out, `<code class="language-toml">`)

	out = string(Markdown("1. first\n2. second"))
	assert.Contains(t, out, "<ol>")

	out = string(Markdown(`hello <script>alert(1)</script>`))
	assert.NotContains(t, out, "<script>")

	out = string(Markdown("<code class=\"evil\">x</code> <pre><code class=\"language-toml x\">y</code></pre>"))
	assert.NotContains(t, out, "evil")
	assert.NotContains(t, out, "language-toml x")
}
