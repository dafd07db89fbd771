package service

import (
	"github.com/wingbeat/carrier/internal/auth/domain"
	"github.com/wingbeat/carrier/pkg/identity"
	"github.com/wingbeat/carrier/pkg/jwtx"
)

func issueLocalPair(codec *jwtx.Codec, username string) (domain.TokenPair, error) {
	return issuePair(codec, username, "")
}

func issueDelegatedPair(codec *jwtx.Codec, providerID, provider string) (domain.TokenPair, error) {
	return issuePair(codec, providerID, provider)
}

func issuePair(codec *jwtx.Codec, subject, provider string) (domain.TokenPair, error) {
	access, err := codec.Issue(subject, provider, jwtx.KindAccess, jwtx.AccessTokenTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := codec.Issue(subject, provider, jwtx.KindRefresh, jwtx.RefreshTokenTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{Access: access, Refresh: refresh}, nil
}

// RefreshService mints replacement access tokens from a refresh token. The
// new token gets the refresh-derived TTL, which is longer than a login-fresh
// access token so a re-established session isn't back here in five minutes.
type RefreshService struct {
	Codec *jwtx.Codec
}

// RefreshAccess validates the refresh token and mints a new access token
// for the same subject. Every failure is ErrInvalidToken; the caller
// surfaces them all as one 401.
func (s *RefreshService) RefreshAccess(at identity.AuthType, refreshToken string) (string, error) {
	if !s.Codec.Verify(refreshToken, jwtx.KindRefresh) {
		return "", ErrInvalidToken
	}

	claims, err := s.Codec.Claims(refreshToken)
	if err != nil {
		return "", ErrInvalidToken
	}

	switch at {
	case identity.AuthTypeDelegated:
		// A delegated subject is the pair (providerId, provider); anything
		// less is not a usable identity.
		if claims.Subject == "" || claims.Provider == "" {
			return "", ErrInvalidToken
		}
		return s.Codec.Issue(claims.Subject, claims.Provider, jwtx.KindAccess, jwtx.RefreshedAccessTokenTTL)
	case identity.AuthTypeLocal:
		if claims.Subject == "" {
			return "", ErrInvalidToken
		}
		return s.Codec.Issue(claims.Subject, "", jwtx.KindAccess, jwtx.RefreshedAccessTokenTTL)
	default:
		return "", ErrInvalidToken
	}
}
