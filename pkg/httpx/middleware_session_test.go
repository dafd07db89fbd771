package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wingbeat/carrier/pkg/identity"
	"github.com/wingbeat/carrier/pkg/jwtx"
)

const refreshPath = "/refresh"

type capture struct {
	called    bool
	principal identity.Principal
	resolved  bool
}

func (c *capture) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.called = true
		c.principal, c.resolved = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func newSessionHarness(t *testing.T, resolver identity.Resolver) (*jwtx.Codec, *SessionTransport, func(*http.Request) (*httptest.ResponseRecorder, *capture)) {
	t.Helper()

	codec := jwtx.NewCodec([]byte("session-middleware-test-secret!!"))
	transport := NewSessionTransport(false)

	serve := func(req *http.Request) (*httptest.ResponseRecorder, *capture) {
		cap := &capture{}
		h := SessionMiddleware(SessionConfig{
			Codec:       codec,
			Cookies:     transport,
			Resolver:    resolver,
			RefreshPath: refreshPath,
		})(cap.handler())

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec, cap
	}

	return codec, transport, serve
}

func addCookie(req *http.Request, name, value string) {
	req.AddCookie(&http.Cookie{Name: name, Value: value})
}

func TestSessionMiddlewareNoCookiesPassesThrough(t *testing.T) {
	t.Parallel()
	_, _, serve := newSessionHarness(t, identity.ClaimsResolver{})

	rec, cap := serve(httptest.NewRequest(http.MethodGet, "/anything", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, cap.called)
	require.False(t, cap.resolved)
}

func TestSessionMiddlewareMissingAuthTypeIsInert(t *testing.T) {
	t.Parallel()
	codec, _, serve := newSessionHarness(t, identity.ClaimsResolver{})

	access, err := codec.Issue("alice", "", jwtx.KindAccess, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	addCookie(req, CookieAccessToken, access)

	rec, cap := serve(req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, cap.called)
	require.False(t, cap.resolved)
}

func TestSessionMiddlewareRefreshOnlyBranch(t *testing.T) {
	t.Parallel()
	codec, _, serve := newSessionHarness(t, identity.ClaimsResolver{})

	refresh, err := codec.Issue("alice", "", jwtx.KindRefresh, time.Hour)
	require.NoError(t, err)

	t.Run("valid refresh rejected everywhere but the refresh endpoint", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/subscriptions", nil)
		addCookie(req, CookieAuthType, "base")
		addCookie(req, CookieRefreshToken, refresh)

		rec, cap := serve(req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.False(t, cap.called)
	})

	t.Run("valid refresh admitted at the refresh endpoint", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, refreshPath, nil)
		addCookie(req, CookieAuthType, "base")
		addCookie(req, CookieRefreshToken, refresh)

		rec, cap := serve(req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, cap.called)
		require.False(t, cap.resolved)
	})

	t.Run("invalid refresh falls through unauthenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/subscriptions", nil)
		addCookie(req, CookieAuthType, "base")
		addCookie(req, CookieRefreshToken, "garbage")

		rec, cap := serve(req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, cap.called)
		require.False(t, cap.resolved)
	})

	t.Run("no refresh at all falls through unauthenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/subscriptions", nil)
		addCookie(req, CookieAuthType, "base")

		rec, cap := serve(req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, cap.called)
	})

	t.Run("access token in the refresh slot does not count", func(t *testing.T) {
		// Kind tagging: an access token can't stand in for a refresh token.
		access, err := codec.Issue("alice", "", jwtx.KindAccess, time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, refreshPath, nil)
		addCookie(req, CookieAuthType, "base")
		addCookie(req, CookieRefreshToken, access)

		rec, cap := serve(req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, cap.called)
		require.False(t, cap.resolved)
	})
}

func TestSessionMiddlewareInvalidAccessToken(t *testing.T) {
	t.Parallel()
	codec, _, serve := newSessionHarness(t, identity.ClaimsResolver{})

	access, err := codec.Issue("alice", "", jwtx.KindAccess, time.Minute)
	require.NoError(t, err)

	// Tamper with the signature.
	i := strings.LastIndex(access, ".") + 1
	tampered := access[:i] + "AAAA" + access[i+4:]

	t.Run("rejected off the refresh endpoint", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/subscriptions", nil)
		addCookie(req, CookieAuthType, "base")
		addCookie(req, CookieAccessToken, tampered)

		rec, cap := serve(req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.False(t, cap.called)
		require.JSONEq(t, `{"status":"unauthorized"}`, rec.Body.String())
	})

	t.Run("passed through on the refresh endpoint", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, refreshPath, nil)
		addCookie(req, CookieAuthType, "base")
		addCookie(req, CookieAccessToken, tampered)

		rec, cap := serve(req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, cap.called)
	})

	t.Run("refresh token in the access slot is rejected", func(t *testing.T) {
		refresh, err := codec.Issue("alice", "", jwtx.KindRefresh, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/subscriptions", nil)
		addCookie(req, CookieAuthType, "base")
		addCookie(req, CookieAccessToken, refresh)

		rec, cap := serve(req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.False(t, cap.called)
	})
}

func TestSessionMiddlewareTamperedAndExpiredAreIndistinguishable(t *testing.T) {
	t.Parallel()
	codec, _, serve := newSessionHarness(t, identity.ClaimsResolver{})

	issueExpired := func() string {
		// Issue in the past by winding the codec clock via a second codec
		// sharing the secret is not possible from here, so use a token with
		// a near-zero ttl and wait it out.
		token, err := codec.Issue("alice", "", jwtx.KindAccess, time.Nanosecond)
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)
		return token
	}

	valid, err := codec.Issue("alice", "", jwtx.KindAccess, time.Minute)
	require.NoError(t, err)
	i := strings.LastIndex(valid, ".") + 1
	tampered := valid[:i] + "AAAA" + valid[i+4:]

	bodies := make(map[string]string)
	for name, token := range map[string]string{"tampered": tampered, "expired": issueExpired()} {
		req := httptest.NewRequest(http.MethodGet, "/subscriptions", nil)
		addCookie(req, CookieAuthType, "base")
		addCookie(req, CookieAccessToken, token)

		rec, _ := serve(req)
		require.Equal(t, http.StatusUnauthorized, rec.Code, name)
		bodies[name] = rec.Body.String()
	}
	require.Equal(t, bodies["tampered"], bodies["expired"])
}

func TestSessionMiddlewareResolvesPrincipal(t *testing.T) {
	t.Parallel()
	codec, _, serve := newSessionHarness(t, identity.ClaimsResolver{})

	t.Run("local", func(t *testing.T) {
		access, err := codec.Issue("alice", "", jwtx.KindAccess, time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/subscriptions", nil)
		addCookie(req, CookieAuthType, "base")
		addCookie(req, CookieAccessToken, access)

		rec, cap := serve(req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, cap.resolved)
		require.Equal(t, identity.Local("alice"), cap.principal)
	})

	t.Run("delegated", func(t *testing.T) {
		access, err := codec.Issue("42", "github", jwtx.KindAccess, time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/subscriptions", nil)
		addCookie(req, CookieAuthType, "oauth")
		addCookie(req, CookieAccessToken, access)

		rec, cap := serve(req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, cap.resolved)
		require.Equal(t, identity.Delegated("42", "github"), cap.principal)
	})
}

func TestSessionMiddlewareUnresolvedProceedsAnonymous(t *testing.T) {
	t.Parallel()

	unresolved := identity.ResolverFunc(func(context.Context, identity.AuthType, jwtx.Claims) (identity.Principal, bool, error) {
		return identity.Principal{}, false, nil
	})
	codec, _, serve := newSessionHarness(t, unresolved)

	access, err := codec.Issue("ghost", "", jwtx.KindAccess, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/subscriptions", nil)
	addCookie(req, CookieAuthType, "base")
	addCookie(req, CookieAccessToken, access)

	rec, cap := serve(req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, cap.called)
	require.False(t, cap.resolved)
}

func TestSessionMiddlewareResolverFailureFaultsRequest(t *testing.T) {
	t.Parallel()

	broken := identity.ResolverFunc(func(context.Context, identity.AuthType, jwtx.Claims) (identity.Principal, bool, error) {
		return identity.Principal{}, false, errors.New("store down")
	})
	codec, _, serve := newSessionHarness(t, broken)

	access, err := codec.Issue("alice", "", jwtx.KindAccess, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/subscriptions", nil)
	addCookie(req, CookieAuthType, "base")
	addCookie(req, CookieAccessToken, access)

	rec, cap := serve(req)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.False(t, cap.called)
}

func TestSessionMiddlewareIdempotence(t *testing.T) {
	t.Parallel()

	resolveCount := 0
	counting := identity.ResolverFunc(func(_ context.Context, at identity.AuthType, c jwtx.Claims) (identity.Principal, bool, error) {
		resolveCount++
		return identity.Local(c.Subject), true, nil
	})
	codec, _, serve := newSessionHarness(t, counting)

	access, err := codec.Issue("alice", "", jwtx.KindAccess, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/subscriptions", nil)
	addCookie(req, CookieAuthType, "base")
	addCookie(req, CookieAccessToken, access)

	// A prior stage already attached someone else.
	req = req.WithContext(WithPrincipal(req.Context(), identity.Local("pre-resolved")))

	rec, cap := serve(req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, cap.resolved)
	require.Equal(t, identity.Local("pre-resolved"), cap.principal)
	require.Zero(t, resolveCount, "middleware must not re-resolve")
}
