package http

import (
	"net/http"

	"github.com/wingbeat/carrier/pkg/httpx"
)

// PushKeyHandler hands out the VAPID public key a browser needs to create a
// push subscription addressed to this deployment.
type PushKeyHandler struct {
	PublicKey string
}

func (h *PushKeyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"key": h.PublicKey})
}
