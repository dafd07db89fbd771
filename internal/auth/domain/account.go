package domain

import (
	"time"

	"github.com/wingbeat/carrier/pkg/idx"
)

// LocalAccount is a password-backed account. Username is the unique key; the
// auth core never mutates a row after registration.
type LocalAccount struct {
	ID           idx.ID
	Username     string
	PasswordHash string // argon2id, PHC encoded
	CreatedAt    time.Time
}

// DelegatedAccount is an account whose identity belongs to a third-party
// provider. The composite natural key is (ProviderID, Provider); attributes
// are written once on the first completed handoff and never overwritten.
type DelegatedAccount struct {
	ID          idx.ID
	ProviderID  string
	Provider    string
	DisplayName string
	AvatarURI   string
	Email       string // optional, providers don't always share it
	CreatedAt   time.Time
}

// TokenPair is what the issuing paths hand to the cookie transport.
type TokenPair struct {
	Access  string
	Refresh string
}
