package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/wingbeat/carrier/internal/notify/service"
	"github.com/wingbeat/carrier/pkg/httpx"
	"github.com/wingbeat/carrier/pkg/slogx"
)

// maxSubscriptionBytes bounds the subscription JSON a browser may post. Real
// PushSubscription payloads are a few hundred bytes.
const maxSubscriptionBytes = 8 << 10

// SaveSubscriptionHandler stores a push subscription for producer {id} under
// ?name=. The body is the browser's PushSubscription JSON, kept opaque.
type SaveSubscriptionHandler struct {
	Notify *service.NotifyService
}

func (h *SaveSubscriptionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	producerKey := r.PathValue("id")
	name := r.URL.Query().Get("name")

	subscription, ok := readSubscription(r)
	if !ok || name == "" {
		httpx.WriteStatus(w, http.StatusBadRequest, "failure")
		return
	}

	err := h.Notify.SaveSubscription(r.Context(), producerKey, name, subscription)
	if err != nil {
		if errors.Is(err, service.ErrUnknownProducer) {
			httpx.WriteStatus(w, http.StatusBadRequest, "failure")
			return
		}
		slogx.FromContext(r.Context()).Error("subscription save failed", "error", err)
		httpx.WriteStatus(w, http.StatusInternalServerError, "error")
		return
	}

	httpx.WriteStatus(w, http.StatusOK, "saved")
}

// UnsubscribeHandler removes the subscription matching the posted JSON.
type UnsubscribeHandler struct {
	Notify *service.NotifyService
}

func (h *UnsubscribeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	subscription, ok := readSubscription(r)
	if !ok {
		httpx.WriteStatus(w, http.StatusBadRequest, "failure")
		return
	}

	if err := h.Notify.Unsubscribe(r.Context(), subscription); err != nil {
		slogx.FromContext(r.Context()).Error("unsubscribe failed", "error", err)
		httpx.WriteStatus(w, http.StatusInternalServerError, "error")
		return
	}

	httpx.WriteStatus(w, http.StatusOK, "deleted")
}

// readSubscription reads and sanity-checks the subscription body. The service
// matches subscriptions by digest, so the JSON must arrive in one canonical
// form; compacting here makes whitespace differences not matter.
func readSubscription(r *http.Request) (string, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSubscriptionBytes))
	if err != nil || len(body) == 0 || !json.Valid(body) {
		return "", false
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err != nil {
		return "", false
	}
	return compact.String(), true
}
