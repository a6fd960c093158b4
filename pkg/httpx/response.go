package httpx

import (
	"encoding/json"
	"mime"
	"net/http"
)

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes v as JSON with the given status code. Responses are never
// cached.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an ErrorResponse with the given status code.
func WriteError(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, ErrorResponse{Error: msg})
}

// StartAttachment writes the headers for a file download and a 200 status.
// The caller streams the body afterwards. An empty contentType becomes
// application/octet-stream.
func StartAttachment(w http.ResponseWriter, contentType, filename string) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	NoCache(w)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if filename != "" {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	} else {
		w.Header().Set("Content-Disposition", "attachment")
	}
	w.WriteHeader(http.StatusOK)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// Admin responses carry personal data and must never be cached.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
