package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/nominate/pkg/httpx"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.WriteError(rec, http.StatusNotFound, "CV not found")

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.JSONEq(t, `{"error":"CV not found"}`, rec.Body.String())
}

func TestStartAttachment(t *testing.T) {
	tests := []struct {
		name            string
		contentType     string
		filename        string
		wantType        string
		wantDisposition string
	}{
		{"pdf", "application/pdf", "nomination-01J.pdf", "application/pdf", "attachment; filename=nomination-01J.pdf"},
		{"spaces quoted", "text/plain", "my cv.txt", "text/plain", `attachment; filename="my cv.txt"`},
		{"unknown type", "", "cv.bin", "application/octet-stream", "attachment; filename=cv.bin"},
		{"no name", "text/plain", "", "text/plain", "attachment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			httpx.StartAttachment(rec, tt.contentType, tt.filename)

			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, tt.wantType, rec.Header().Get("Content-Type"))
			require.Equal(t, tt.wantDisposition, rec.Header().Get("Content-Disposition"))
			require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		})
	}
}
