package http

import (
	"net/http"

	"github.com/wingbeat/carrier/internal/notify/service"
	"github.com/wingbeat/carrier/pkg/httpx"
	"github.com/wingbeat/carrier/pkg/slogx"
)

// ProducerIDHandler returns the caller's producer id, creating the producer
// row on first sight. This is the only endpoint here that demands a
// principal: everything else keys off the producer id it returns.
type ProducerIDHandler struct {
	Notify *service.NotifyService
}

func (h *ProducerIDHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	principal, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteUnauthorized(w)
		return
	}

	producer, err := h.Notify.EnsureProducer(r.Context(), principal.SubjectID())
	if err != nil {
		slogx.FromContext(r.Context()).Error("producer ensure failed", "error", err)
		httpx.WriteStatus(w, http.StatusInternalServerError, "error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"id": producer.Key})
}
