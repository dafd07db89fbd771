package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/wingbeat/carrier/internal/auth/domain"
	"github.com/wingbeat/carrier/pkg/identity"
	"github.com/wingbeat/carrier/pkg/idx"
	"github.com/wingbeat/carrier/pkg/jwtx"
)

func claimsFor(subject, provider string) jwtx.Claims {
	return jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
		Provider:         provider,
	}
}

func TestStoreResolverLocal(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	r := &StoreResolver{Store: st}

	require.NoError(t, st.LocalAccounts().Create(ctx, domain.LocalAccount{
		ID:           idx.New(),
		Username:     "alice",
		PasswordHash: "$argon2id$...",
	}))

	p, ok, err := r.Resolve(ctx, identity.AuthTypeLocal, claimsFor("alice", ""))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, identity.Local("alice"), p)
}

func TestStoreResolverDelegated(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	r := &StoreResolver{Store: st}

	require.NoError(t, st.DelegatedAccounts().CreateIfAbsent(ctx, domain.DelegatedAccount{
		ID:          idx.New(),
		ProviderID:  "42",
		Provider:    "github",
		DisplayName: "The Octocat",
	}))

	p, ok, err := r.Resolve(ctx, identity.AuthTypeDelegated, claimsFor("42", "github"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, identity.Delegated("42", "github"), p)
}

func TestStoreResolverAbsentAccountIsUnresolvedNotAnError(t *testing.T) {
	ctx := context.Background()
	r := &StoreResolver{Store: newTestStore(t)}

	tests := []struct {
		name     string
		authType identity.AuthType
		claims   jwtx.Claims
	}{
		{"unknown local account", identity.AuthTypeLocal, claimsFor("ghost", "")},
		{"unknown delegated account", identity.AuthTypeDelegated, claimsFor("999", "github")},
		{"empty subject", identity.AuthTypeLocal, claimsFor("", "")},
		{"delegated missing provider", identity.AuthTypeDelegated, claimsFor("42", "")},
		{"unknown auth type", identity.AuthType("saml"), claimsFor("alice", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := r.Resolve(ctx, tt.authType, tt.claims)
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}
