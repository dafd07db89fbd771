package http

import (
	"encoding/json"
	"net/http"

	"github.com/wingbeat/carrier/internal/notify/service"
	"github.com/wingbeat/carrier/pkg/httpx"
	"github.com/wingbeat/carrier/pkg/slogx"
)

type notificationRequest struct {
	Message string   `json:"message"`
	Names   []string `json:"names"`
}

// NotificationsHandler fans a message out to the named subscribers of
// producer ?id=. The response is 200 whether or not anything matched; the
// producer id is a capability, and probing it must not reveal which names
// exist.
type NotificationsHandler struct {
	Notify *service.NotifyService
}

func (h *NotificationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	producerKey := r.URL.Query().Get("id")

	var req notificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || producerKey == "" || req.Message == "" {
		httpx.WriteStatus(w, http.StatusBadRequest, "failure")
		return
	}

	queued, err := h.Notify.Notify(r.Context(), producerKey, req.Message, req.Names)
	if err != nil {
		slogx.FromContext(r.Context()).Error("notification fan-out failed", "error", err)
		httpx.WriteStatus(w, http.StatusInternalServerError, "error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"queued": queued,
	})
}
