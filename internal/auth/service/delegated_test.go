package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wingbeat/carrier/internal/auth/provider"
	"github.com/wingbeat/carrier/pkg/jwtx"
)

func TestCompleteIssuesDelegatedTokens(t *testing.T) {
	ctx := context.Background()
	codec := newTestCodec()
	svc := &DelegatedService{Store: newTestStore(t), Codec: codec}

	pair, err := svc.Complete(ctx, provider.Profile{
		ProviderID:  "42",
		Provider:    "github",
		DisplayName: "The Octocat",
		AvatarURI:   "https://example/a.png",
	})
	require.NoError(t, err)

	require.True(t, codec.Verify(pair.Access, jwtx.KindAccess))
	require.True(t, codec.Verify(pair.Refresh, jwtx.KindRefresh))

	claims, err := codec.Claims(pair.Access)
	require.NoError(t, err)
	require.Equal(t, "42", claims.Subject)
	require.Equal(t, "github", claims.Provider)
}

func TestCompleteIsIdempotentFirstWriteWins(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &DelegatedService{Store: st, Codec: newTestCodec()}

	_, err := svc.Complete(ctx, provider.Profile{
		ProviderID:  "42",
		Provider:    "github",
		DisplayName: "First Name",
	})
	require.NoError(t, err)

	// Same key, different attributes: must not touch the stored row.
	_, err = svc.Complete(ctx, provider.Profile{
		ProviderID:  "42",
		Provider:    "github",
		DisplayName: "Second Name",
		Email:       "late@example.com",
	})
	require.NoError(t, err)

	account, err := st.DelegatedAccounts().GetByKey(ctx, "42", "github")
	require.NoError(t, err)
	require.Equal(t, "First Name", account.DisplayName)
	require.Empty(t, account.Email)
}

func TestCompleteDistinguishesProviders(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &DelegatedService{Store: st, Codec: newTestCodec()}

	_, err := svc.Complete(ctx, provider.Profile{ProviderID: "42", Provider: "github", DisplayName: "G"})
	require.NoError(t, err)
	_, err = svc.Complete(ctx, provider.Profile{ProviderID: "42", Provider: "gitlab", DisplayName: "L"})
	require.NoError(t, err)

	gh, err := st.DelegatedAccounts().GetByKey(ctx, "42", "github")
	require.NoError(t, err)
	gl, err := st.DelegatedAccounts().GetByKey(ctx, "42", "gitlab")
	require.NoError(t, err)
	require.NotEqual(t, gh.ID, gl.ID)
}
