package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token TTL constants shared by the issuer and every resource service.
const (
	// AccessTokenTTL is the lifetime of an access token minted at login,
	// register or a completed delegated handoff.
	AccessTokenTTL = 5 * time.Minute

	// RefreshTokenTTL is the lifetime of a refresh token.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// RefreshedAccessTokenTTL is the lifetime of an access token minted from
	// a refresh token. Longer than a fresh access token on purpose: once a
	// session has re-established itself the client shouldn't have to hit the
	// refresh endpoint every five minutes.
	RefreshedAccessTokenTTL = 15 * time.Minute
)

// Kind tags what a token may be used for. Access and refresh tokens share
// one signing path, so the kind is an explicit claim and Verify rejects a
// token presented for the wrong use site. A refresh token can never pass as
// an access token.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims is the signed claim set carried by both token kinds. Subject is a
// username for password sessions and a provider-assigned id for delegated
// sessions; Provider is only populated for the latter.
type Claims struct {
	jwt.RegisteredClaims

	// Kind is the token use site, see Kind.
	Kind Kind `json:"knd"`

	// Provider is the third-party identity provider name, present only on
	// delegated-identity tokens.
	Provider string `json:"provider,omitempty"`
}

func newClaims(subject, provider string, kind Kind, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Kind:     kind,
		Provider: provider,
	}
}
