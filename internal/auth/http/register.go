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

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterHandler creates a local account and establishes a session in one
// step, so a fresh signup lands already logged in.
type RegisterHandler struct {
	Auth    *service.AuthService
	Cookies *httpx.SessionTransport
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		httpx.WriteStatus(w, http.StatusBadRequest, "failure")
		return
	}

	pair, err := h.Auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateAccount) {
			httpx.WriteStatus(w, http.StatusConflict, "failure")
			return
		}
		slogx.FromContext(r.Context()).Error("register failed", "error", err)
		httpx.WriteStatus(w, http.StatusInternalServerError, "error")
		return
	}

	h.Cookies.Write(w, pair.Access, pair.Refresh, identity.AuthTypeLocal)
	httpx.WriteStatus(w, http.StatusOK, "success")
}
