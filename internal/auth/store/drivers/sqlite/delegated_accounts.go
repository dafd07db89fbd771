package sqlite

import (
	"context"
	"database/sql"

	"github.com/wingbeat/carrier/internal/auth/domain"
	"github.com/wingbeat/carrier/pkg/idx"
)

type delegatedAccountsRepo struct {
	db *sql.DB
}

func (r *delegatedAccountsRepo) GetByKey(ctx context.Context, providerID, provider string) (domain.DelegatedAccount, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, provider_id, provider, display_name, avatar_uri, email, created_at
		FROM delegated_accounts
		WHERE provider_id = ? AND provider = ?`, providerID, provider)

	var a domain.DelegatedAccount
	var id string
	var email sql.NullString
	if err := row.Scan(&id, &a.ProviderID, &a.Provider, &a.DisplayName, &a.AvatarURI, &email, &a.CreatedAt); err != nil {
		return domain.DelegatedAccount{}, mapNotFound(err)
	}
	a.ID = idx.ID(id)
	a.Email = mapNullString(email)
	return a, nil
}

func (r *delegatedAccountsRepo) CreateIfAbsent(ctx context.Context, a domain.DelegatedAccount) error {
	// First write wins: a second handoff with the same key must not touch
	// the stored attributes.
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO delegated_accounts (id, provider_id, provider, display_name, avatar_uri, email)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (provider_id, provider) DO NOTHING`,
		a.ID.String(), a.ProviderID, a.Provider, a.DisplayName, a.AvatarURI, mapStringNull(a.Email))
	return err
}
