package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformed reports a token that does not parse or verify at all.
	ErrMalformed = errors.New("jwtx: malformed token")

	// ErrEmptySubject reports an Issue call without a subject.
	ErrEmptySubject = errors.New("jwtx: empty subject")

	// ErrBadTTL reports an Issue call with a non-positive ttl.
	ErrBadTTL = errors.New("jwtx: ttl must be positive")
)

// Codec signs and verifies compact HS256 claim sets against a single shared
// secret. It holds no mutable state, so one Codec is safe for concurrent use
// across every request worker.
type Codec struct {
	secret []byte

	// now is the clock, swappable in tests.
	now func() time.Time
}

// NewCodec builds a Codec over the shared signing secret.
func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret, now: time.Now}
}

// Issue signs a claim set for subject with the given kind and ttl. Provider
// may be empty for local-identity tokens.
func (c *Codec) Issue(subject, provider string, kind Kind, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", ErrEmptySubject
	}
	if ttl <= 0 {
		return "", ErrBadTTL
	}

	claims := newClaims(subject, provider, kind, ttl, c.now().UTC())
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify reports whether token is a currently-valid token of the expected
// kind. It is total: malformed encoding, a bad signature, expiry and a kind
// mismatch all come back as a plain false. Callers must not learn why a
// token failed, so there is nothing else to return.
func (c *Codec) Verify(token string, kind Kind) bool {
	claims, err := c.parse(token)
	if err != nil {
		return false
	}
	return claims.Kind == kind
}

// Claims extracts the claim set from token. The signature and expiry are
// still checked during parsing; ErrMalformed comes back for anything that
// does not hold up. Call Verify first on any path where the kind matters.
func (c *Codec) Claims(token string) (Claims, error) {
	claims, err := c.parse(token)
	if err != nil {
		return Claims{}, ErrMalformed
	}
	return claims, nil
}

func (c *Codec) parse(token string) (Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrMalformed
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return c.now().UTC() }))
	if err != nil || !parsed.Valid {
		return Claims{}, ErrMalformed
	}
	return claims, nil
}
