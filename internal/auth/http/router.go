package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/wingbeat/carrier/internal/auth/provider"
	"github.com/wingbeat/carrier/internal/auth/service"
	"github.com/wingbeat/carrier/internal/auth/store"
	"github.com/wingbeat/carrier/pkg/httpx"
	"github.com/wingbeat/carrier/pkg/slogx"
)

// RefreshPath is the one endpoint reachable on a refresh token alone; the
// session middleware and the refresh handler must agree on it.
const RefreshPath = "/refresh"

// Router holds shared dependencies for the issuer's HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	cookies      *httpx.SessionTransport
	frontendURL  string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	AuthService      *service.AuthService
	RefreshService   *service.RefreshService
	DelegatedService *service.DelegatedService
	Exchanger        provider.Exchanger
}

func NewRouter(
	cookies *httpx.SessionTransport,
	sessionCfg httpx.SessionConfig,
	frontendURL, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		cookies:      cookies,
		frontendURL:  frontendURL,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.SessionMiddleware(sessionCfg),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	// Credential endpoints get the strict limit: they are the brute-force
	// surface.
	r.Mux.Handle("POST /register",
		httpx.Chain(&RegisterHandler{Auth: r.AuthService, Cookies: r.cookies},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /login",
		httpx.Chain(&LoginHandler{Auth: r.AuthService, Cookies: r.cookies},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("GET "+RefreshPath,
		httpx.Chain(&RefreshHandler{Refresh: r.RefreshService, Cookies: r.cookies},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /logout",
		httpx.Chain(&LogoutHandler{Cookies: r.cookies, FrontendURL: r.frontendURL},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /auth/callback",
		httpx.Chain(&CallbackHandler{
			Exchanger:   r.Exchanger,
			Delegated:   r.DelegatedService,
			Cookies:     r.cookies,
			FrontendURL: r.frontendURL,
		},
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
