package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wingbeat/carrier/internal/notify/domain"
	"github.com/wingbeat/carrier/internal/notify/store"
	"github.com/wingbeat/carrier/internal/notify/store/drivers/sqlite"
	"github.com/wingbeat/carrier/pkg/idx"
)

type fakeSender struct {
	sent   []string // payload bodies in send order
	failOn map[string]bool
}

func (f *fakeSender) Send(_ context.Context, subscriptionJSON string, payload []byte) error {
	var p pushPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return err
	}
	if f.failOn[subscriptionJSON] {
		return errors.New("push endpoint returned 410")
	}
	f.sent = append(f.sent, p.Body)
	return nil
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func enqueue(t *testing.T, outbox store.Outbox, subscription, message string) idx.ID {
	t.Helper()

	id := idx.New()
	require.NoError(t, outbox.Enqueue(context.Background(), []domain.Envelope{{
		ID:               id,
		SubscriptionJSON: subscription,
		Message:          message,
	}}))
	return id
}

func newPoller(outbox store.Outbox, sender Sender) *Poller {
	return &Poller{
		Outbox:    outbox,
		Sender:    sender,
		Interval:  10 * time.Millisecond,
		BatchSize: 2,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestDrainDeliversAndMarksDone(t *testing.T) {
	st := newTestStore(t)
	sender := &fakeSender{}
	p := newPoller(st.Outbox(), sender)

	enqueue(t, st.Outbox(), `{"endpoint":"https://push.example/a"}`, "first")
	enqueue(t, st.Outbox(), `{"endpoint":"https://push.example/b"}`, "second")
	enqueue(t, st.Outbox(), `{"endpoint":"https://push.example/c"}`, "third")

	require.NoError(t, p.drain(context.Background()))
	require.Equal(t, []string{"first", "second", "third"}, sender.sent)

	// Everything was marked; nothing is claimable afterwards.
	envs, err := st.Outbox().Claim(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, envs)
}

func TestDrainMarksFailedAndKeepsGoing(t *testing.T) {
	st := newTestStore(t)
	badSub := `{"endpoint":"https://push.example/gone"}`
	sender := &fakeSender{failOn: map[string]bool{badSub: true}}
	p := newPoller(st.Outbox(), sender)

	enqueue(t, st.Outbox(), badSub, "lost")
	enqueue(t, st.Outbox(), `{"endpoint":"https://push.example/b"}`, "kept")

	require.NoError(t, p.drain(context.Background()))

	// One attempt per envelope: the failure is recorded, not retried, and
	// the rest of the batch still went out.
	require.Equal(t, []string{"kept"}, sender.sent)

	envs, err := st.Outbox().Claim(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, envs)
}

func TestRunStopsOnCancel(t *testing.T) {
	st := newTestStore(t)
	p := newPoller(st.Outbox(), &fakeSender{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on cancel")
	}
}
