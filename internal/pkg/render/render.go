package render

import (
	"encoding/json"
	"net/http"
)

const (
	contentJSON = "application/json; charset=utf-8"
	contentHTML = "text/html; charset=utf-8"
)

type errResponse struct {
	Error string `json:"error"`
}

// JSON writes v with status. Responses describe the secrets file as it is
// right now, so none of them may be cached.
func JSON(w http.ResponseWriter, status int, v any) {
	writeHeader(w, status, contentJSON)
	_ = json.NewEncoder(w).Encode(v)
}

// Err writes {"error": "..."} with status.
func Err(w http.ResponseWriter, status int, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	JSON(w, status, errResponse{Error: msg})
}

// HTML writes a rendered page.
func HTML(w http.ResponseWriter, status int, page []byte) {
	writeHeader(w, status, contentHTML)
	_, _ = w.Write(page)
}

func writeHeader(w http.ResponseWriter, status int, contentType string) {
	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
}
