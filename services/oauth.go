package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/promptlib/backend/config"
)

// OAuthUserInfo is the subset of the provider's userinfo response the
// callback needs to provision a profile.
type OAuthUserInfo struct {
	ID      string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// OAuthService exchanges authorization codes and fetches user identity
// from the configured provider.
type OAuthService struct {
	conf        *oauth2.Config
	userInfoURL string
}

// NewOAuthService builds the service from environment configuration.
// Returns nil when OAUTH_CLIENT_ID is unset; the callback route then
// reports OAuth as unconfigured instead of failing at boot.
func NewOAuthService(cfg map[string]string) *OAuthService {
	clientID := config.GetString(cfg, "OAUTH_CLIENT_ID", "")
	if clientID == "" {
		return nil
	}
	return &OAuthService{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: config.GetString(cfg, "OAUTH_CLIENT_SECRET", ""),
			RedirectURL:  config.GetString(cfg, "OAUTH_REDIRECT_URL", ""),
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  config.GetString(cfg, "OAUTH_AUTH_URL", "https://accounts.google.com/o/oauth2/auth"),
				TokenURL: config.GetString(cfg, "OAUTH_TOKEN_URL", "https://oauth2.googleapis.com/token"),
			},
		},
		userInfoURL: config.GetString(cfg, "OAUTH_USERINFO_URL", "https://openidconnect.googleapis.com/v1/userinfo"),
	}
}

// Exchange trades the callback code for a token and fetches userinfo.
func (s *OAuthService) Exchange(ctx context.Context, code string) (*OAuthUserInfo, error) {
	token, err := s.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	client := s.conf.Client(ctx, token)
	resp, err := client.Get(s.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read userinfo response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var info OAuthUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse userinfo response: %w", err)
	}
	return &info, nil
}
