// Package domain holds the notification service's core entities. A producer
// is any authenticated identity that hands out its id; subscribers attach a
// browser push subscription to a producer under a chosen name; envelopes are
// the outbox rows a delivery worker drains.
package domain

import (
	"time"

	"github.com/wingbeat/carrier/pkg/idx"
)

// Producer is an identity that can fan out notifications. Key is the
// producer's stable external id: the username for local identities, the
// provider id for delegated ones.
type Producer struct {
	ID        idx.ID
	Key       string
	CreatedAt time.Time
}

// Subscriber ties one browser push subscription to a producer under a name
// the producer picks recipients by. Fingerprint is a digest of the
// subscription JSON and is the dedupe key: one browser, one row.
type Subscriber struct {
	ID               idx.ID
	ProducerID       idx.ID
	Name             string
	SubscriptionJSON string
	Fingerprint      string
	CreatedAt        time.Time
}

// Envelope status values.
const (
	EnvelopePending = "pending"
	EnvelopeClaimed = "claimed"
	EnvelopeDone    = "done"
	EnvelopeFailed  = "failed"
)

// Envelope is one queued delivery: a subscription to push to and the message
// to wrap. Enqueue is at-least-once; whether delivery succeeds is the
// worker's record to keep.
type Envelope struct {
	ID               idx.ID
	SubscriptionJSON string
	Message          string
	Status           string
	CreatedAt        time.Time
}
