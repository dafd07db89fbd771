package http

import (
	"net/http"

	"github.com/wingbeat/carrier/pkg/httpx"
)

// LogoutHandler clears the session cookies and bounces back to the frontend.
// It succeeds for everyone, session or not; logout with an expired or garbage
// token still leaves the browser clean.
type LogoutHandler struct {
	Cookies     *httpx.SessionTransport
	FrontendURL string
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Cookies.Clear(w)
	http.Redirect(w, r, h.FrontendURL, http.StatusFound)
}
