package nominatesdk_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/nominate/pkg/nominatesdk"
)

func TestClient_SubmitAndSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /submit", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "Jane Doe", r.FormValue("nominator_name"))
		f, h, err := r.FormFile("cv")
		require.NoError(t, err)
		defer f.Close()
		b, _ := io.ReadAll(f)
		require.Equal(t, "cv.pdf", h.Filename)
		require.Equal(t, "pdf-bytes", string(b))
		_ = json.NewEncoder(w).Encode(nominatesdk.SubmitResponse{Message: "ok", ID: "01J"})
	})
	mux.HandleFunc("POST /admin/login", func(w http.ResponseWriter, r *http.Request) {
		var req nominatesdk.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		ok := req.Name == "root" && req.Password == "pw"
		if ok {
			http.SetCookie(w, &http.Cookie{Name: "sid", Value: "tok", Path: "/"})
		}
		_ = json.NewEncoder(w).Encode(nominatesdk.LoginResponse{Success: ok})
	})
	mux.HandleFunc("GET /admin/nominations", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("sid"); err != nil || c.Value != "tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(nominatesdk.ErrorResponse{Error: "unauthorized"})
			return
		}
		_, _ = w.Write([]byte(`[{"id":"01J","nominator_name":"Jane Doe","nominee_name":"","category":"","cv_reference":null}]`))
	})
	mux.HandleFunc("GET /admin/download/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("Content-Disposition", `attachment; filename="cv.txt"`)
		_, _ = w.Write([]byte("hello"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx := context.Background()
	c, err := nominatesdk.NewClient(srv.URL + "/")
	require.NoError(t, err)

	id, err := c.Submit(ctx, map[string]string{"nominator_name": "Jane Doe"}, &nominatesdk.File{Name: "cv.pdf", Data: []byte("pdf-bytes")})
	require.NoError(t, err)
	require.Equal(t, "01J", id)

	_, err = c.ListNominations(ctx)
	require.True(t, nominatesdk.IsUnauthorized(err))

	ok, err := c.Login(ctx, "root", "nope")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = c.Login(ctx, "root", "pw")
	require.NoError(t, err)
	require.True(t, ok)

	list, err := c.ListNominations(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Nil(t, list[0].CVReference)

	d, err := c.DownloadCV(ctx, "01J")
	require.NoError(t, err)
	require.Equal(t, "cv.txt", d.Filename)
	require.Equal(t, "hello", string(d.Data))

	_, err = c.FinalPDF(ctx, "01J")
	require.True(t, nominatesdk.IsNotFound(err))
}
