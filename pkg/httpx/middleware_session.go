package httpx

import (
	"net/http"

	"github.com/wingbeat/carrier/pkg/identity"
	"github.com/wingbeat/carrier/pkg/jwtx"
	"github.com/wingbeat/carrier/pkg/slogx"
)

// SessionConfig wires the session middleware's collaborators.
type SessionConfig struct {
	Codec    *jwtx.Codec
	Cookies  *SessionTransport
	Resolver identity.Resolver

	// RefreshPath is the one endpoint a session with a dead access token may
	// still reach on the strength of its refresh token alone. Leave empty on
	// services that host no refresh endpoint; such a session is then 401
	// everywhere.
	RefreshPath string
}

// SessionMiddleware authenticates each inbound request from its session
// cookies. It runs before every application handler and decides, per
// request, whether to attach a principal, reject with 401, or pass through
// unauthenticated. The branches are evaluated strictly in order; downstream
// authorization is a separate concern and a request may legitimately proceed
// with no principal at all.
func SessionMiddleware(cfg SessionConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			sess := cfg.Cookies.Read(r)

			// No session cookies at all: anonymous request.
			if sess.Empty() {
				next.ServeHTTP(w, r)
				return
			}

			// A stray access or refresh cookie without a type tag is inert.
			if !sess.HasAuthType {
				next.ServeHTTP(w, r)
				return
			}

			// Access cookie missing. A live refresh token buys entry to the
			// refresh endpoint and nothing else; the session must go there
			// to re-establish itself rather than silently re-authenticating
			// wherever it happened to land.
			if !sess.HasAccessToken {
				if sess.HasRefreshToken && cfg.Codec.Verify(sess.RefreshToken, jwtx.KindRefresh) {
					if cfg.RefreshPath != "" && r.URL.Path == cfg.RefreshPath {
						next.ServeHTTP(w, r)
						return
					}
					WriteUnauthorized(w)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			// An upstream stage already resolved an identity. Never clobber it.
			if _, ok := PrincipalFromContext(ctx); ok {
				next.ServeHTTP(w, r)
				return
			}

			// Invalid access token. The refresh endpoint gets to apply its
			// own judgement; everyone else rejects.
			if !cfg.Codec.Verify(sess.AccessToken, jwtx.KindAccess) {
				if cfg.RefreshPath != "" && r.URL.Path == cfg.RefreshPath {
					next.ServeHTTP(w, r)
					return
				}
				WriteUnauthorized(w)
				return
			}

			claims, err := cfg.Codec.Claims(sess.AccessToken)
			if err != nil {
				// Verify passed, so this can't happen short of a race with
				// the clock. Treat as any other invalid token.
				WriteUnauthorized(w)
				return
			}

			principal, ok, err := cfg.Resolver.Resolve(ctx, sess.AuthType, claims)
			if err != nil {
				log.Error("identity resolution failed", "err", err)
				WriteStatus(w, http.StatusInternalServerError, "error")
				return
			}

			// Unresolved is not a fault: the request proceeds anonymous and
			// downstream authorization rejects it if it needed a principal.
			if ok {
				r = r.WithContext(WithPrincipal(ctx, principal))
			}
			next.ServeHTTP(w, r)
		})
	}
}
