package httpx

import (
	"net/http"

	"github.com/wingbeat/carrier/pkg/identity"
	"github.com/wingbeat/carrier/pkg/jwtx"
)

// The three transport cookies. Both services must agree on these names; they
// are the whole session protocol.
const (
	CookieAuthType     = "AUTH_TYPE"
	CookieAccessToken  = "ACCESS_TOKEN"
	CookieRefreshToken = "REFRESH_TOKEN"
)

// Session is the cookie-carried session state of one request. Presence and
// value are tracked separately: an absent cookie and an empty-valued cookie
// are different inputs to the session middleware.
type Session struct {
	AuthType     identity.AuthType
	AccessToken  string
	RefreshToken string

	HasAuthType     bool
	HasAccessToken  bool
	HasRefreshToken bool
}

// Empty reports whether the request carried none of the session cookies.
func (s Session) Empty() bool {
	return !s.HasAuthType && !s.HasAccessToken && !s.HasRefreshToken
}

// SessionTransport encodes and decodes the session cookies with one uniform
// attribute policy: HttpOnly, SameSite=Lax, path "/" for all three. Secure
// comes from the deployment's TLS posture, never hardcoded.
type SessionTransport struct {
	secure bool
}

func NewSessionTransport(secure bool) *SessionTransport {
	return &SessionTransport{secure: secure}
}

// Read decodes the session cookies from an inbound request. Absence of any
// cookie is not an error.
func (t *SessionTransport) Read(r *http.Request) Session {
	var s Session

	if c, err := r.Cookie(CookieAuthType); err == nil {
		s.AuthType = identity.AuthType(c.Value)
		s.HasAuthType = true
	}
	if c, err := r.Cookie(CookieAccessToken); err == nil {
		s.AccessToken = c.Value
		s.HasAccessToken = true
	}
	if c, err := r.Cookie(CookieRefreshToken); err == nil {
		s.RefreshToken = c.Value
		s.HasRefreshToken = true
	}

	return s
}

// Write sets all three cookies with their issuance max-ages. Used on
// register, login and a completed delegated handoff. The AUTH_TYPE cookie
// lives as long as the refresh token; a type tag that outlived its tokens
// would be inert, one that dies early would strand a live refresh token.
func (t *SessionTransport) Write(w http.ResponseWriter, access, refresh string, at identity.AuthType) {
	t.set(w, CookieAccessToken, access, int(jwtx.AccessTokenTTL.Seconds()))
	t.set(w, CookieRefreshToken, refresh, int(jwtx.RefreshTokenTTL.Seconds()))
	t.set(w, CookieAuthType, string(at), int(jwtx.RefreshTokenTTL.Seconds()))
}

// WriteRefreshedAccess sets only the access cookie, with the refresh-derived
// TTL. Used by the refresh endpoint.
func (t *SessionTransport) WriteRefreshedAccess(w http.ResponseWriter, access string) {
	t.set(w, CookieAccessToken, access, int(jwtx.RefreshedAccessTokenTTL.Seconds()))
}

// Clear expires all three cookies. Unconditional; logout never inspects
// token validity.
func (t *SessionTransport) Clear(w http.ResponseWriter) {
	t.set(w, CookieAccessToken, "", -1)
	t.set(w, CookieRefreshToken, "", -1)
	t.set(w, CookieAuthType, "", -1)
}

func (t *SessionTransport) set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
