package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/wingbeat/carrier/internal/notify/service"
	"github.com/wingbeat/carrier/internal/notify/store"
	"github.com/wingbeat/carrier/pkg/httpx"
	"github.com/wingbeat/carrier/pkg/slogx"
)

// Router holds shared dependencies for the notification service's handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	vapidPublicKey string
	buildVersion   string
	startTime      time.Time
	logger         *slog.Logger

	store store.Store

	NotifyService *service.NotifyService
}

func NewRouter(
	sessionCfg httpx.SessionConfig,
	vapidPublicKey, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:            http.NewServeMux(),
		vapidPublicKey: vapidPublicKey,
		buildVersion:   buildVersion,
		startTime:      time.Now(),
		store:          st,
		logger:         logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.SessionMiddleware(sessionCfg),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.Mux.Handle("GET /push/key",
		httpx.Chain(&PushKeyHandler{PublicKey: r.vapidPublicKey},
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /me/id",
		httpx.Chain(&ProducerIDHandler{Notify: r.NotifyService},
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("POST /subscriptions/{id}",
		httpx.Chain(&SaveSubscriptionHandler{Notify: r.NotifyService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /subscriptions/unsubscribe",
		httpx.Chain(&UnsubscribeHandler{Notify: r.NotifyService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /notifications",
		httpx.Chain(&NotificationsHandler{Notify: r.NotifyService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}
