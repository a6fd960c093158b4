package http

import (
	"net/http"
	"path/filepath"
)

// PageHandler serves one file from dir. The pages are static; nothing is
// templated server-side.
func PageHandler(dir, name string) http.HandlerFunc {
	path := filepath.Join(dir, name)
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, path)
	}
}
