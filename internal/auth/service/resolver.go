package service

import (
	"context"
	"errors"

	"github.com/wingbeat/carrier/internal/auth/store"
	"github.com/wingbeat/carrier/pkg/identity"
	"github.com/wingbeat/carrier/pkg/jwtx"
)

// StoreResolver maps verified claims to a principal by looking the account
// up in the issuer's store. An account that is gone resolves to nothing and
// the request proceeds unauthenticated; only the lookup itself failing is an
// error. Resolution never creates accounts.
type StoreResolver struct {
	Store store.Store
}

func (r *StoreResolver) Resolve(ctx context.Context, at identity.AuthType, claims jwtx.Claims) (identity.Principal, bool, error) {
	switch at {
	case identity.AuthTypeLocal:
		if claims.Subject == "" {
			return identity.Principal{}, false, nil
		}
		account, err := r.Store.LocalAccounts().GetByUsername(ctx, claims.Subject)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return identity.Principal{}, false, nil
			}
			return identity.Principal{}, false, err
		}
		return identity.Local(account.Username), true, nil

	case identity.AuthTypeDelegated:
		if claims.Subject == "" || claims.Provider == "" {
			return identity.Principal{}, false, nil
		}
		account, err := r.Store.DelegatedAccounts().GetByKey(ctx, claims.Subject, claims.Provider)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return identity.Principal{}, false, nil
			}
			return identity.Principal{}, false, err
		}
		return identity.Delegated(account.ProviderID, account.Provider), true, nil

	default:
		return identity.Principal{}, false, nil
	}
}
