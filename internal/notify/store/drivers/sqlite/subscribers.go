package sqlite

import (
	"context"
	"database/sql"

	"github.com/wingbeat/carrier/internal/notify/domain"
	"github.com/wingbeat/carrier/pkg/idx"
)

type subscribersRepo struct {
	db *sql.DB
}

func (r *subscribersRepo) Upsert(ctx context.Context, s domain.Subscriber) error {
	// The fingerprint identifies the browser; re-subscribing re-homes the
	// row instead of accumulating stale copies.
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscribers (id, producer_id, name, subscription_json, fingerprint)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (fingerprint) DO UPDATE SET
			producer_id = excluded.producer_id,
			name = excluded.name,
			subscription_json = excluded.subscription_json`,
		s.ID.String(), s.ProducerID.String(), s.Name, s.SubscriptionJSON, s.Fingerprint)
	return err
}

func (r *subscribersRepo) DeleteByFingerprint(ctx context.Context, fingerprint string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM subscribers WHERE fingerprint = ?`, fingerprint)
	return err
}

func (r *subscribersRepo) ListByProducer(ctx context.Context, producerID string) ([]domain.Subscriber, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, producer_id, name, subscription_json, fingerprint, created_at
		FROM subscribers
		WHERE producer_id = ?
		ORDER BY id`, producerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []domain.Subscriber
	for rows.Next() {
		var s domain.Subscriber
		var id, pid string
		if err := rows.Scan(&id, &pid, &s.Name, &s.SubscriptionJSON, &s.Fingerprint, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.ID = idx.ID(id)
		s.ProducerID = idx.ID(pid)
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
