package sqlite

import (
	"context"
	"database/sql"

	"github.com/wingbeat/carrier/internal/notify/domain"
	"github.com/wingbeat/carrier/pkg/idx"
)

type producersRepo struct {
	db *sql.DB
}

func (r *producersRepo) GetByKey(ctx context.Context, key string) (domain.Producer, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, key, created_at
		FROM producers
		WHERE key = ?`, key)

	var p domain.Producer
	var id string
	if err := row.Scan(&id, &p.Key, &p.CreatedAt); err != nil {
		return domain.Producer{}, mapNotFound(err)
	}
	p.ID = idx.ID(id)
	return p, nil
}

func (r *producersRepo) EnsureByKey(ctx context.Context, p domain.Producer) (domain.Producer, error) {
	// Insert-if-absent, then read back whichever row won. Two concurrent
	// ensures for the same key converge on one producer.
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO producers (id, key)
		VALUES (?, ?)
		ON CONFLICT (key) DO NOTHING`,
		p.ID.String(), p.Key)
	if err != nil {
		return domain.Producer{}, err
	}

	return r.GetByKey(ctx, p.Key)
}
