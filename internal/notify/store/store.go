package store

import (
	"context"
	"errors"

	"github.com/wingbeat/carrier/internal/notify/domain"
)

var ErrNotFound = errors.New("store: not found")

// Store is the root data access interface for the notification service and
// the delivery worker, which share one database: the service writes the
// outbox, the worker drains it.
type Store interface {
	Producers() Producers
	Subscribers() Subscribers
	Outbox() Outbox

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Producers interface {
	// GetByKey returns the producer or ErrNotFound.
	GetByKey(ctx context.Context, key string) (domain.Producer, error)

	// EnsureByKey inserts the producer unless the key already exists, and
	// returns the stored row either way.
	EnsureByKey(ctx context.Context, p domain.Producer) (domain.Producer, error)
}

type Subscribers interface {
	// Upsert stores the subscription keyed by fingerprint. A browser that
	// re-subscribes moves to the new producer and name rather than growing
	// a second row.
	Upsert(ctx context.Context, s domain.Subscriber) error

	// DeleteByFingerprint removes the subscription; deleting an absent
	// fingerprint is not an error.
	DeleteByFingerprint(ctx context.Context, fingerprint string) error

	// ListByProducer returns all subscribers attached to the producer.
	ListByProducer(ctx context.Context, producerID string) ([]domain.Subscriber, error)
}

type Outbox interface {
	// Enqueue appends pending envelopes in one transaction.
	Enqueue(ctx context.Context, envs []domain.Envelope) error

	// Claim atomically moves up to limit pending envelopes to claimed and
	// returns them. Two workers never claim the same envelope.
	Claim(ctx context.Context, limit int) ([]domain.Envelope, error)

	// MarkDone and MarkFailed record the single delivery attempt's outcome.
	MarkDone(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
}
