package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wingbeat/carrier/internal/auth/store"
	"github.com/wingbeat/carrier/internal/auth/store/drivers/sqlite"
	"github.com/wingbeat/carrier/pkg/cryptox"
	"github.com/wingbeat/carrier/pkg/jwtx"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "carrier-auth-service-test-pepper")
	cryptox.SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newTestCodec() *jwtx.Codec {
	return jwtx.NewCodec([]byte("auth-service-test-secret-32bytes"))
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	ctx := context.Background()
	codec := newTestCodec()
	svc := &AuthService{Store: newTestStore(t), Codec: codec}

	registered, err := svc.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	require.True(t, codec.Verify(registered.Access, jwtx.KindAccess))
	require.True(t, codec.Verify(registered.Refresh, jwtx.KindRefresh))

	loggedIn, err := svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	require.True(t, codec.Verify(loggedIn.Access, jwtx.KindAccess))
	require.True(t, codec.Verify(loggedIn.Refresh, jwtx.KindRefresh))

	claims, err := codec.Claims(loggedIn.Access)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)
	require.Empty(t, claims.Provider)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	svc := &AuthService{Store: newTestStore(t), Codec: newTestCodec()}

	_, err := svc.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "another")
	require.ErrorIs(t, err, ErrDuplicateAccount)
}

func TestRegisterStoresHashNotPassword(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &AuthService{Store: st, Codec: newTestCodec()}

	_, err := svc.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	account, err := st.LocalAccounts().GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotEqual(t, "pw1", account.PasswordHash)
	require.NoError(t, cryptox.VerifyPassword("pw1", account.PasswordHash))
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	svc := &AuthService{Store: newTestStore(t), Codec: newTestCodec()}

	_, err := svc.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	t.Run("unknown username", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody", "pw1")
		require.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice", "wrong")
		require.ErrorIs(t, err, ErrBadCredentials)
	})
}
