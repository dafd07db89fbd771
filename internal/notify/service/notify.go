package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/wingbeat/carrier/internal/notify/domain"
	"github.com/wingbeat/carrier/internal/notify/store"
	"github.com/wingbeat/carrier/pkg/cryptox"
	"github.com/wingbeat/carrier/pkg/idx"
	"github.com/wingbeat/carrier/pkg/slogx"
)

var ErrUnknownProducer = errors.New("service: unknown producer")

// GreetingMessage is pushed once to a browser right after it subscribes, so
// the user sees immediately that the subscription works.
const GreetingMessage = "You are subscribed. This is your confirmation push."

// NotifyService owns producers, subscribers and the outbox. Deliveries are
// never attempted here: everything outbound becomes an envelope, and the
// worker owns what happens to envelopes.
type NotifyService struct {
	Store store.Store
}

// EnsureProducer returns the producer for the given identity key, creating
// the row on first sight.
func (s *NotifyService) EnsureProducer(ctx context.Context, key string) (domain.Producer, error) {
	return s.Store.Producers().EnsureByKey(ctx, domain.Producer{
		ID:  idx.New(),
		Key: key,
	})
}

// SaveSubscription stores a browser push subscription under the producer and
// name, and enqueues a single greeting push. The subscription JSON is opaque
// here; it is deduplicated by fingerprint, not parsed.
func (s *NotifyService) SaveSubscription(ctx context.Context, producerKey, name, subscriptionJSON string) error {
	producer, err := s.Store.Producers().GetByKey(ctx, producerKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUnknownProducer
		}
		return err
	}

	sub := domain.Subscriber{
		ID:               idx.New(),
		ProducerID:       producer.ID,
		Name:             name,
		SubscriptionJSON: subscriptionJSON,
		Fingerprint:      cryptox.Fingerprint(subscriptionJSON),
	}
	if err := s.Store.Subscribers().Upsert(ctx, sub); err != nil {
		return err
	}

	return s.Store.Outbox().Enqueue(ctx, []domain.Envelope{{
		ID:               idx.New(),
		SubscriptionJSON: subscriptionJSON,
		Message:          GreetingMessage,
	}})
}

// Unsubscribe drops the subscription matching the given JSON. Unsubscribing
// something never subscribed is a no-op.
func (s *NotifyService) Unsubscribe(ctx context.Context, subscriptionJSON string) error {
	return s.Store.Subscribers().DeleteByFingerprint(ctx, cryptox.Fingerprint(subscriptionJSON))
}

// Notify fans a message out to the producer's subscribers whose names appear
// in names, one envelope each. Enqueue is at-least-once and the call reports
// how many envelopes it queued; an unknown producer simply queues nothing.
func (s *NotifyService) Notify(ctx context.Context, producerKey, message string, names []string) (int, error) {
	producer, err := s.Store.Producers().GetByKey(ctx, producerKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	subs, err := s.Store.Subscribers().ListByProducer(ctx, producer.ID.String())
	if err != nil {
		return 0, err
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var envs []domain.Envelope
	for _, sub := range subs {
		if !wanted[sub.Name] {
			continue
		}
		envs = append(envs, domain.Envelope{
			ID:               idx.New(),
			SubscriptionJSON: sub.SubscriptionJSON,
			Message:          message,
		})
	}

	if err := s.Store.Outbox().Enqueue(ctx, envs); err != nil {
		return 0, err
	}

	slogx.FromContext(ctx).Info("notifications enqueued",
		slog.String("producer", producerKey),
		slog.Int("count", len(envs)),
	)
	return len(envs), nil
}
