package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wingbeat/carrier/pkg/identity"
)

func cookiesByName(t *testing.T, rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	t.Helper()
	out := make(map[string]*http.Cookie)
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestWriteSetsAllThreeCookies(t *testing.T) {
	t.Parallel()

	tr := NewSessionTransport(true)
	rec := httptest.NewRecorder()
	tr.Write(rec, "access-token", "refresh-token", identity.AuthTypeLocal)

	got := cookiesByName(t, rec)
	require.Len(t, got, 3)

	require.Equal(t, "access-token", got[CookieAccessToken].Value)
	require.Equal(t, "refresh-token", got[CookieRefreshToken].Value)
	require.Equal(t, "base", got[CookieAuthType].Value)

	for name, c := range got {
		require.True(t, c.HttpOnly, "%s must be HttpOnly", name)
		require.True(t, c.Secure, "%s must inherit the TLS posture", name)
		require.Equal(t, http.SameSiteLaxMode, c.SameSite, name)
		require.Equal(t, "/", c.Path, name)
		require.Positive(t, c.MaxAge, name)
	}

	// Access expires well before refresh.
	require.Less(t, got[CookieAccessToken].MaxAge, got[CookieRefreshToken].MaxAge)
}

func TestWriteRefreshedAccessOnlyTouchesAccessCookie(t *testing.T) {
	t.Parallel()

	tr := NewSessionTransport(false)
	rec := httptest.NewRecorder()
	tr.WriteRefreshedAccess(rec, "new-access")

	got := cookiesByName(t, rec)
	require.Len(t, got, 1)
	require.Equal(t, "new-access", got[CookieAccessToken].Value)

	// Refresh-derived access tokens get the longer grace window.
	require.Equal(t, 15*60, got[CookieAccessToken].MaxAge)
}

func TestClearExpiresEverything(t *testing.T) {
	t.Parallel()

	tr := NewSessionTransport(false)
	rec := httptest.NewRecorder()
	tr.Clear(rec)

	got := cookiesByName(t, rec)
	require.Len(t, got, 3)
	for name, c := range got {
		require.Empty(t, c.Value, name)
		require.Negative(t, c.MaxAge, name)
	}
}

func TestReadRoundTrip(t *testing.T) {
	t.Parallel()

	tr := NewSessionTransport(false)
	rec := httptest.NewRecorder()
	tr.Write(rec, "a", "r", identity.AuthTypeDelegated)

	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	sess := tr.Read(req)
	require.True(t, sess.HasAuthType)
	require.True(t, sess.HasAccessToken)
	require.True(t, sess.HasRefreshToken)
	require.Equal(t, identity.AuthTypeDelegated, sess.AuthType)
	require.Equal(t, "a", sess.AccessToken)
	require.Equal(t, "r", sess.RefreshToken)
	require.False(t, sess.Empty())
}

func TestReadAbsentCookiesIsNotAnError(t *testing.T) {
	t.Parallel()

	tr := NewSessionTransport(false)
	req := httptest.NewRequest(http.MethodGet, "/anything", nil)

	sess := tr.Read(req)
	require.True(t, sess.Empty())
	require.False(t, sess.HasAuthType)
	require.False(t, sess.HasAccessToken)
	require.False(t, sess.HasRefreshToken)
}
