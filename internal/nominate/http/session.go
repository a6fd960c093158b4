package http

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/aussiebroadwan/nominate/internal/nominate/service"
	"github.com/aussiebroadwan/nominate/pkg/httpx"
	"github.com/aussiebroadwan/nominate/pkg/nominatesdk"
	"github.com/aussiebroadwan/nominate/pkg/slogx"
)

type SessionHandler struct {
	SessionService *service.SessionService
	Cookie         CookieConfig
}

// HandleLogin opens an admin session.
//
//	@Summary		Admin login
//	@Description	Checks the credentials and sets the session cookie. Wrong credentials are reported as success=false, not as an error.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		nominatesdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	nominatesdk.LoginResponse
//	@Failure		400		{object}	nominatesdk.ErrorResponse
//	@Failure		500		{object}	nominatesdk.ErrorResponse
//	@Router			/admin/login [post].
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	var req nominatesdk.LoginRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		req.Name = r.PostFormValue("name")
		req.Password = r.PostFormValue("password")
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	token, ok, err := h.SessionService.Login(r.Context(), req.Name, req.Password)
	if err != nil {
		l.Error("admin login error", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpx.NoCache(w)
	if ok {
		http.SetCookie(w, &http.Cookie{
			Name:     h.Cookie.Name,
			Value:    token,
			Path:     "/",
			MaxAge:   int(h.SessionService.TTL.Seconds()),
			HttpOnly: true,
			Secure:   h.Cookie.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, nominatesdk.LoginResponse{Success: ok})
}

// HandleLogout revokes the current session.
//
//	@Summary	Admin logout
//	@Tags		Admin
//	@Produce	json
//	@Success	200	{object}	nominatesdk.LogoutResponse
//	@Failure	500	{object}	nominatesdk.ErrorResponse
//	@Router		/admin/logout [post].
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(h.Cookie.Name); err == nil {
		if err := h.SessionService.Logout(r.Context(), c.Value); err != nil {
			slogx.FromContext(r.Context()).Error("admin logout error", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.Cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.WriteJSON(w, http.StatusOK, nominatesdk.LogoutResponse{Success: true})
}
