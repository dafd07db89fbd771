package service

import "errors"

// Authentication failures collapse into this deliberately coarse set. The
// HTTP layer maps them onto 400/401/409 without elaborating, so a caller
// can't probe which check failed.
var (
	ErrDuplicateAccount = errors.New("duplicate_account")
	ErrAccountNotFound  = errors.New("account_not_found")
	ErrBadCredentials   = errors.New("bad_credentials")
	ErrInvalidToken     = errors.New("invalid_token")
)
