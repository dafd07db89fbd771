package sqlite

import (
	"context"
	"database/sql"

	"github.com/wingbeat/carrier/internal/auth/domain"
	"github.com/wingbeat/carrier/pkg/idx"
)

type localAccountsRepo struct {
	db *sql.DB
}

func (r *localAccountsRepo) GetByUsername(ctx context.Context, username string) (domain.LocalAccount, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at
		FROM local_accounts
		WHERE username = ?`, username)

	var a domain.LocalAccount
	var id string
	if err := row.Scan(&id, &a.Username, &a.PasswordHash, &a.CreatedAt); err != nil {
		return domain.LocalAccount{}, mapNotFound(err)
	}
	a.ID = idx.ID(id)
	return a, nil
}

func (r *localAccountsRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM local_accounts WHERE username = ?`, username)

	var count int64
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *localAccountsRepo) Create(ctx context.Context, a domain.LocalAccount) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO local_accounts (id, username, password_hash)
		VALUES (?, ?, ?)`,
		a.ID.String(), a.Username, a.PasswordHash)
	return mapConstraint(err)
}
