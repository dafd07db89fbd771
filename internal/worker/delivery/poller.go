package delivery

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/wingbeat/carrier/internal/notify/domain"
	"github.com/wingbeat/carrier/internal/notify/store"
)

// NotificationTitle is the fixed title browsers show; the envelope message
// becomes the body.
const NotificationTitle = "New notification"

type pushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Poller repeatedly claims pending envelopes and hands each to the Sender
// once. Claims are atomic in the store, so pollers can run side by side.
type Poller struct {
	Outbox    store.Outbox
	Sender    Sender
	Interval  time.Duration
	BatchSize int
	Logger    *slog.Logger
}

// Run polls until ctx is cancelled. Each tick drains the outbox completely,
// batch by batch, before going back to sleep.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		if err := p.drain(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Logger.Error("outbox drain failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *Poller) drain(ctx context.Context) error {
	for {
		envs, err := p.Outbox.Claim(ctx, p.BatchSize)
		if err != nil {
			return err
		}
		if len(envs) == 0 {
			return nil
		}

		for _, env := range envs {
			p.deliver(ctx, env)
		}
	}
}

func (p *Poller) deliver(ctx context.Context, env domain.Envelope) {
	payload, err := json.Marshal(pushPayload{
		Title: NotificationTitle,
		Body:  env.Message,
	})
	if err != nil {
		p.markFailed(ctx, env)
		return
	}

	if err := p.Sender.Send(ctx, env.SubscriptionJSON, payload); err != nil {
		p.Logger.Warn("push delivery failed", "envelope", env.ID.String(), "error", err)
		p.markFailed(ctx, env)
		return
	}

	if err := p.Outbox.MarkDone(ctx, env.ID.String()); err != nil {
		p.Logger.Error("mark done failed", "envelope", env.ID.String(), "error", err)
	}
}

func (p *Poller) markFailed(ctx context.Context, env domain.Envelope) {
	if err := p.Outbox.MarkFailed(ctx, env.ID.String()); err != nil {
		p.Logger.Error("mark failed failed", "envelope", env.ID.String(), "error", err)
	}
}
