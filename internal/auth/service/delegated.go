package service

import (
	"context"
	"log/slog"

	"github.com/wingbeat/carrier/internal/auth/domain"
	"github.com/wingbeat/carrier/internal/auth/provider"
	"github.com/wingbeat/carrier/internal/auth/store"
	"github.com/wingbeat/carrier/pkg/idx"
	"github.com/wingbeat/carrier/pkg/jwtx"
	"github.com/wingbeat/carrier/pkg/slogx"
)

// DelegatedService finishes a third-party handoff: persist the delegated
// account if this is its first visit, and issue session tokens either way.
type DelegatedService struct {
	Store store.Store
	Codec *jwtx.Codec
}

// Complete upserts the delegated account keyed by (providerId, provider)
// and mints a token pair for it. The upsert is insert-if-absent: a repeat
// handoff keeps the first-seen attributes untouched.
func (s *DelegatedService) Complete(ctx context.Context, p provider.Profile) (domain.TokenPair, error) {
	account := domain.DelegatedAccount{
		ID:          idx.New(),
		ProviderID:  p.ProviderID,
		Provider:    p.Provider,
		DisplayName: p.DisplayName,
		AvatarURI:   p.AvatarURI,
		Email:       p.Email,
	}

	if err := s.Store.DelegatedAccounts().CreateIfAbsent(ctx, account); err != nil {
		return domain.TokenPair{}, err
	}

	slogx.FromContext(ctx).Info("delegated handoff completed",
		slog.String("provider", p.Provider),
		slog.String("provider_id", p.ProviderID),
	)

	return issueDelegatedPair(s.Codec, p.ProviderID, p.Provider)
}
