package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const providerGitHub = "github"

// GitHub exchanges callback codes against the GitHub OAuth endpoints.
type GitHub struct {
	ClientID     string
	ClientSecret string

	// TokenURL and UserURL default to the public GitHub endpoints and are
	// overridable for tests.
	TokenURL string
	UserURL  string

	HTTPClient *http.Client
}

func NewGitHub(clientID, clientSecret string) *GitHub {
	return &GitHub{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     "https://github.com/login/oauth/access_token",
		UserURL:      "https://api.github.com/user",
		HTTPClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

var ErrExchangeFailed = errors.New("provider: exchange failed")

func (g *GitHub) Exchange(ctx context.Context, code string) (Profile, error) {
	token, err := g.exchangeCode(ctx, code)
	if err != nil {
		return Profile{}, err
	}
	return g.fetchProfile(ctx, token)
}

func (g *GitHub) exchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", g.ClientID)
	form.Set("client_secret", g.ClientSecret)
	form.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token endpoint returned %d", ErrExchangeFailed, resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrExchangeFailed)
	}
	return body.AccessToken, nil
}

func (g *GitHub) fetchProfile(ctx context.Context, token string) (Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.UserURL, nil)
	if err != nil {
		return Profile{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("%w: user endpoint returned %d", ErrExchangeFailed, resp.StatusCode)
	}

	var body struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
		Email     string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Profile{}, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}

	name := body.Name
	if name == "" {
		name = body.Login
	}

	return Profile{
		ProviderID:  strconv.FormatInt(body.ID, 10),
		Provider:    providerGitHub,
		DisplayName: name,
		AvatarURI:   body.AvatarURL,
		Email:       body.Email,
	}, nil
}
