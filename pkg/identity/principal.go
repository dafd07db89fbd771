// Package identity defines the caller identity model shared by the issuer
// and every resource service. A session is one of exactly two kinds: a local
// password account, or an account delegated to a third-party provider. The
// kind is a closed enum so a third identity kind is a compile-visible change,
// not a new runtime type assertion.
package identity

import (
	"context"

	"github.com/wingbeat/carrier/pkg/jwtx"
)

// AuthType is the transport tag carried in the AUTH_TYPE cookie.
type AuthType string

const (
	// AuthTypeLocal marks a session backed by a local password account.
	AuthTypeLocal AuthType = "base"

	// AuthTypeDelegated marks a session backed by a third-party provider.
	AuthTypeDelegated AuthType = "oauth"
)

// Valid reports whether a is one of the two known auth types.
func (a AuthType) Valid() bool {
	return a == AuthTypeLocal || a == AuthTypeDelegated
}

// Kind discriminates the Principal union.
type Kind int

const (
	KindLocal Kind = iota
	KindDelegated
)

// Role is the single authority a principal carries. There is no hierarchy.
type Role string

const RoleUser Role = "user"

// Principal is the resolved caller identity attached to a request after
// successful authentication. Exactly one of the two field groups is set,
// according to Kind.
type Principal struct {
	Kind Kind
	Role Role

	// Local
	Username string

	// Delegated
	ProviderID string
	Provider   string
}

// Local builds a local-account principal.
func Local(username string) Principal {
	return Principal{Kind: KindLocal, Role: RoleUser, Username: username}
}

// Delegated builds a delegated-account principal.
func Delegated(providerID, provider string) Principal {
	return Principal{Kind: KindDelegated, Role: RoleUser, ProviderID: providerID, Provider: provider}
}

// SubjectID returns the stable identifier downstream services key rows on:
// the username for local principals, the provider-assigned id for delegated
// ones.
func (p Principal) SubjectID() string {
	if p.Kind == KindDelegated {
		return p.ProviderID
	}
	return p.Username
}

// Resolver maps verified token claims back to a Principal. Resolution is
// read-only and total over well-formed inputs: an unknown account comes back
// as ok=false, not an error. A non-nil error means the lookup itself failed
// (store connectivity and the like) and the request should fault.
type Resolver interface {
	Resolve(ctx context.Context, at AuthType, claims jwtx.Claims) (Principal, bool, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, at AuthType, claims jwtx.Claims) (Principal, bool, error)

func (f ResolverFunc) Resolve(ctx context.Context, at AuthType, claims jwtx.Claims) (Principal, bool, error) {
	return f(ctx, at, claims)
}

// ClaimsResolver resolves principals straight from token claims with no
// account lookup. Resource services that hold no account store use this; the
// claims are trusted because the shared-secret signature already checked out.
type ClaimsResolver struct{}

func (ClaimsResolver) Resolve(_ context.Context, at AuthType, claims jwtx.Claims) (Principal, bool, error) {
	switch at {
	case AuthTypeLocal:
		if claims.Subject == "" {
			return Principal{}, false, nil
		}
		return Local(claims.Subject), true, nil
	case AuthTypeDelegated:
		if claims.Subject == "" || claims.Provider == "" {
			return Principal{}, false, nil
		}
		return Delegated(claims.Subject, claims.Provider), true, nil
	default:
		return Principal{}, false, nil
	}
}
