package httpx

import (
	"context"

	"github.com/wingbeat/carrier/pkg/identity"
)

type ctxKey string

const ctxKeyPrincipal ctxKey = "principal"

// WithPrincipal attaches the resolved caller identity to the request context.
// Only the session middleware should call this.
func WithPrincipal(ctx context.Context, p identity.Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal, p)
}

// PrincipalFromContext returns the caller identity resolved by the session
// middleware, if any. Handlers that require authentication must treat a
// missing principal as unauthenticated.
func PrincipalFromContext(ctx context.Context) (identity.Principal, bool) {
	p, ok := ctx.Value(ctxKeyPrincipal).(identity.Principal)
	return p, ok
}
