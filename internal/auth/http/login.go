package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wingbeat/carrier/internal/auth/service"
	"github.com/wingbeat/carrier/pkg/httpx"
	"github.com/wingbeat/carrier/pkg/identity"
	"github.com/wingbeat/carrier/pkg/slogx"
)

// LoginHandler verifies local credentials and mints a fresh session. The
// failure bodies are identical for unknown accounts and wrong passwords; only
// the status code differs.
type LoginHandler struct {
	Auth    *service.AuthService
	Cookies *httpx.SessionTransport
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		httpx.WriteStatus(w, http.StatusBadRequest, "failure")
		return
	}

	pair, err := h.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			httpx.WriteStatus(w, http.StatusBadRequest, "failure")
		case errors.Is(err, service.ErrBadCredentials):
			httpx.WriteStatus(w, http.StatusConflict, "failure")
		default:
			slogx.FromContext(r.Context()).Error("login failed", "error", err)
			httpx.WriteStatus(w, http.StatusInternalServerError, "error")
		}
		return
	}

	h.Cookies.Write(w, pair.Access, pair.Refresh, identity.AuthTypeLocal)
	httpx.WriteStatus(w, http.StatusOK, "success")
}
