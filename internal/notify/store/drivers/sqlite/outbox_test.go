package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wingbeat/carrier/internal/notify/domain"
	"github.com/wingbeat/carrier/internal/notify/store"
	"github.com/wingbeat/carrier/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func enqueueN(t *testing.T, outbox store.Outbox, n int) []domain.Envelope {
	t.Helper()

	envs := make([]domain.Envelope, 0, n)
	for i := 0; i < n; i++ {
		envs = append(envs, domain.Envelope{
			ID:               idx.New(),
			SubscriptionJSON: `{"endpoint":"https://push.example/x"}`,
			Message:          "hello",
		})
	}
	require.NoError(t, outbox.Enqueue(context.Background(), envs))
	return envs
}

func TestOutboxClaimRespectsLimit(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	enqueueN(t, st.Outbox(), 5)

	first, err := st.Outbox().Claim(ctx, 3)
	require.NoError(t, err)
	require.Len(t, first, 3)
	for _, env := range first {
		require.Equal(t, domain.EnvelopeClaimed, env.Status)
	}

	second, err := st.Outbox().Claim(ctx, 3)
	require.NoError(t, err)
	require.Len(t, second, 2)

	// A claimed envelope is never handed out twice.
	for _, a := range first {
		for _, b := range second {
			require.NotEqual(t, a.ID, b.ID)
		}
	}

	third, err := st.Outbox().Claim(ctx, 3)
	require.NoError(t, err)
	require.Empty(t, third)
}

func TestOutboxClaimOrder(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	envs := enqueueN(t, st.Outbox(), 3)

	claimed, err := st.Outbox().Claim(ctx, 3)
	require.NoError(t, err)
	require.Len(t, claimed, 3)

	// ULIDs sort by creation time, so FIFO falls out of ORDER BY id.
	for i, env := range claimed {
		require.Equal(t, envs[i].ID, env.ID)
	}
}

func TestOutboxMarkOutcomes(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	enqueueN(t, st.Outbox(), 2)

	claimed, err := st.Outbox().Claim(ctx, 2)
	require.NoError(t, err)
	require.Len(t, claimed, 2)

	require.NoError(t, st.Outbox().MarkDone(ctx, claimed[0].ID.String()))
	require.NoError(t, st.Outbox().MarkFailed(ctx, claimed[1].ID.String()))

	// Neither outcome makes the envelope claimable again.
	again, err := st.Outbox().Claim(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, again)

	require.ErrorIs(t, st.Outbox().MarkDone(ctx, "no-such-id"), store.ErrNotFound)
}

func TestOutboxEnqueueEmpty(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Outbox().Enqueue(context.Background(), nil))
}
