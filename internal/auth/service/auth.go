package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/wingbeat/carrier/internal/auth/domain"
	"github.com/wingbeat/carrier/internal/auth/store"
	"github.com/wingbeat/carrier/pkg/cryptox"
	"github.com/wingbeat/carrier/pkg/idx"
	"github.com/wingbeat/carrier/pkg/jwtx"
	"github.com/wingbeat/carrier/pkg/slogx"
)

// AuthService owns the password-credential flows: registration and login.
// Both end in the same place, a freshly minted access/refresh pair.
type AuthService struct {
	Store store.Store
	Codec *jwtx.Codec
}

// Register creates a local account and issues its first session tokens.
// Returns ErrDuplicateAccount when the username is taken; the pre-check is
// advisory, the store's uniqueness constraint closes the race.
func (s *AuthService) Register(ctx context.Context, username, password string) (domain.TokenPair, error) {
	taken, err := s.Store.LocalAccounts().ExistsByUsername(ctx, username)
	if err != nil {
		return domain.TokenPair{}, err
	}
	if taken {
		return domain.TokenPair{}, ErrDuplicateAccount
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.TokenPair{}, err
	}

	account := domain.LocalAccount{
		ID:           idx.New(),
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.Store.LocalAccounts().Create(ctx, account); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.TokenPair{}, ErrDuplicateAccount
		}
		return domain.TokenPair{}, err
	}

	slogx.FromContext(ctx).Info("local account registered", slog.String("username", username))

	return issueLocalPair(s.Codec, username)
}

// Login verifies password credentials and issues a new session token pair.
// ErrAccountNotFound and ErrBadCredentials stay distinct here; the HTTP
// layer keeps their bodies identical.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.TokenPair, error) {
	account, err := s.Store.LocalAccounts().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrAccountNotFound
		}
		return domain.TokenPair{}, err
	}

	if err := cryptox.VerifyPassword(password, account.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return domain.TokenPair{}, ErrBadCredentials
		}
		// Unusable stored hash: an operational fault, not a caller mistake.
		return domain.TokenPair{}, err
	}

	return issueLocalPair(s.Codec, username)
}
