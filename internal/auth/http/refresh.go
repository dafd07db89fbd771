package http

import (
	"net/http"

	"github.com/wingbeat/carrier/internal/auth/service"
	"github.com/wingbeat/carrier/pkg/httpx"
)

// RefreshHandler mints a replacement access token from the refresh cookie.
// It reads the cookies itself rather than relying on an attached principal:
// the session middleware deliberately lets refresh-only sessions through to
// this one path.
type RefreshHandler struct {
	Refresh *service.RefreshService
	Cookies *httpx.SessionTransport
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess := h.Cookies.Read(r)
	if !sess.HasAuthType || !sess.HasRefreshToken {
		httpx.WriteUnauthorized(w)
		return
	}

	access, err := h.Refresh.RefreshAccess(sess.AuthType, sess.RefreshToken)
	if err != nil {
		// Every refresh failure looks the same to the caller; there is
		// nothing actionable in distinguishing a malformed token from an
		// expired one.
		httpx.WriteUnauthorized(w)
		return
	}

	h.Cookies.WriteRefreshedAccess(w, access)
	httpx.WriteStatus(w, http.StatusOK, "success")
}
