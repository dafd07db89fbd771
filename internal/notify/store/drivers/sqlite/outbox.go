package sqlite

import (
	"context"
	"database/sql"

	"github.com/wingbeat/carrier/internal/notify/domain"
	"github.com/wingbeat/carrier/internal/notify/store"
	"github.com/wingbeat/carrier/pkg/idx"
)

type outboxRepo struct {
	db *sql.DB
}

func (r *outboxRepo) Enqueue(ctx context.Context, envs []domain.Envelope) error {
	if len(envs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, env := range envs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO outbox (id, subscription_json, message, status)
			VALUES (?, ?, ?, ?)`,
			env.ID.String(), env.SubscriptionJSON, env.Message, domain.EnvelopePending); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *outboxRepo) Claim(ctx context.Context, limit int) ([]domain.Envelope, error) {
	// One statement moves the batch to claimed and returns it, so two
	// workers polling the same database never hand out the same envelope.
	rows, err := r.db.QueryContext(ctx, `
		UPDATE outbox
		SET status = ?, claimed_at = CURRENT_TIMESTAMP
		WHERE id IN (
			SELECT id FROM outbox WHERE status = ? ORDER BY id LIMIT ?
		)
		RETURNING id, subscription_json, message, status, created_at`,
		domain.EnvelopeClaimed, domain.EnvelopePending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var envs []domain.Envelope
	for rows.Next() {
		var env domain.Envelope
		var id string
		if err := rows.Scan(&id, &env.SubscriptionJSON, &env.Message, &env.Status, &env.CreatedAt); err != nil {
			return nil, err
		}
		env.ID = idx.ID(id)
		envs = append(envs, env)
	}
	return envs, rows.Err()
}

func (r *outboxRepo) MarkDone(ctx context.Context, id string) error {
	return r.mark(ctx, id, domain.EnvelopeDone)
}

func (r *outboxRepo) MarkFailed(ctx context.Context, id string) error {
	return r.mark(ctx, id, domain.EnvelopeFailed)
}

func (r *outboxRepo) mark(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE outbox SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}
