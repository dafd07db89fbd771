package http

import (
	"net/http"

	"github.com/wingbeat/carrier/internal/auth/provider"
	"github.com/wingbeat/carrier/internal/auth/service"
	"github.com/wingbeat/carrier/pkg/httpx"
	"github.com/wingbeat/carrier/pkg/identity"
	"github.com/wingbeat/carrier/pkg/slogx"
)

// CallbackHandler completes the delegated login handoff: the provider
// redirects the browser here with a one-time code, we trade it for a profile,
// upsert the account and hand back a session before sending the browser home.
type CallbackHandler struct {
	Exchanger   provider.Exchanger
	Delegated   *service.DelegatedService
	Cookies     *httpx.SessionTransport
	FrontendURL string
}

func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Exchanger == nil {
		// No provider credentials configured.
		httpx.WriteStatus(w, http.StatusNotFound, "failure")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		httpx.WriteStatus(w, http.StatusBadRequest, "failure")
		return
	}

	profile, err := h.Exchanger.Exchange(r.Context(), code)
	if err != nil {
		slogx.FromContext(r.Context()).Error("provider exchange failed", "error", err)
		httpx.WriteStatus(w, http.StatusBadGateway, "failure")
		return
	}

	pair, err := h.Delegated.Complete(r.Context(), profile)
	if err != nil {
		slogx.FromContext(r.Context()).Error("delegated login failed", "error", err)
		httpx.WriteStatus(w, http.StatusInternalServerError, "error")
		return
	}

	h.Cookies.Write(w, pair.Access, pair.Refresh, identity.AuthTypeDelegated)
	http.Redirect(w, r, h.FrontendURL+"/login", http.StatusFound)
}
