package store

import (
	"context"
	"errors"

	"github.com/wingbeat/carrier/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface for the issuer. Concrete drivers
// (sqlite today) implement this. Account creation is the only serialization
// point in the whole auth core, and it is closed by the driver's uniqueness
// constraints rather than by application-level locking.
type Store interface {
	LocalAccounts() LocalAccounts
	DelegatedAccounts() DelegatedAccounts

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type LocalAccounts interface {
	// GetByUsername returns the account or ErrNotFound.
	GetByUsername(ctx context.Context, username string) (domain.LocalAccount, error)

	// ExistsByUsername is the cheap pre-check before registration; the
	// register race is still closed by Create's uniqueness constraint.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// Create inserts a new account. Returns ErrAlreadyExists when the
	// username is taken.
	Create(ctx context.Context, a domain.LocalAccount) error
}

type DelegatedAccounts interface {
	// GetByKey looks up the composite natural key, ErrNotFound when absent.
	GetByKey(ctx context.Context, providerID, provider string) (domain.DelegatedAccount, error)

	// CreateIfAbsent inserts the account unless the key already exists, in
	// which case the stored row keeps its first-seen attributes. Never an
	// error for a duplicate.
	CreateIfAbsent(ctx context.Context, a domain.DelegatedAccount) error
}
