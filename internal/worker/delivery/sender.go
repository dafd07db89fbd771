// Package delivery drains the notification outbox and performs the actual
// web-push sends. One attempt per envelope; an envelope that fails stays
// failed, and whoever cares can re-enqueue.
package delivery

import (
	"context"
	"encoding/json"
	"fmt"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// Sender performs one push delivery to one subscription.
type Sender interface {
	Send(ctx context.Context, subscriptionJSON string, payload []byte) error
}

// WebPushSender delivers over the Web Push protocol with VAPID
// authentication.
type WebPushSender struct {
	// Subscriber is the contact URI (mailto:) push services may use to
	// reach the operator.
	Subscriber      string
	VAPIDPublicKey  string
	VAPIDPrivateKey string

	// TTLSeconds is how long a push service should hold an undelivered
	// message.
	TTLSeconds int
}

func (s *WebPushSender) Send(ctx context.Context, subscriptionJSON string, payload []byte) error {
	var sub webpush.Subscription
	if err := json.Unmarshal([]byte(subscriptionJSON), &sub); err != nil {
		return fmt.Errorf("decode subscription: %w", err)
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, &sub, &webpush.Options{
		Subscriber:      s.Subscriber,
		VAPIDPublicKey:  s.VAPIDPublicKey,
		VAPIDPrivateKey: s.VAPIDPrivateKey,
		TTL:             s.TTLSeconds,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("push endpoint returned %d", resp.StatusCode)
	}
	return nil
}
