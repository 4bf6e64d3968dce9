// Package oauth talks to the external identity provider: it builds the
// consent URL and turns an authorization code into the user's subject and
// email.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobassistant/internal/common"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const GoogleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

var defaultScopes = []string{"openid", "email", "profile"}

// Config describes one provider. Empty URLs and scopes fall back to Google's.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	AuthURL     string
	TokenURL    string
	UserInfoURL string
	Scopes      []string

	HTTPClient *http.Client
}

// UserInfo is what the provider tells us about the user.
type UserInfo struct {
	Subject string
	Email   string
	Name    string
}

// GoogleProvider implements the authorization-code flow against Google.
type GoogleProvider struct {
	oauth       *oauth2.Config
	userInfoURL string
	client      *http.Client
}

func NewGoogle(cfg Config) *GoogleProvider {
	endpoint := google.Endpoint
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = defaultScopes
	}
	userInfo := cfg.UserInfoURL
	if userInfo == "" {
		userInfo = GoogleUserInfoURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &GoogleProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Endpoint:     endpoint,
			Scopes:       scopes,
		},
		userInfoURL: userInfo,
		client:      client,
	}
}

// AuthCodeURL returns the consent page URL carrying state.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades code for a provider token and fetches the user's profile
// with it. An empty redirectURI uses the configured one.
func (p *GoogleProvider) Exchange(ctx context.Context, code, redirectURI string) (*UserInfo, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: authorization code is required", common.ErrInvalidInput)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)

	var opts []oauth2.AuthCodeOption
	if redirectURI != "" {
		opts = append(opts, oauth2.SetAuthURLParam("redirect_uri", redirectURI))
	}

	token, err := p.oauth.Exchange(ctx, code, opts...)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			return nil, fmt.Errorf("%w: token exchange failed with status %d", common.ErrInvalidInput, re.Response.StatusCode)
		}
		return nil, fmt.Errorf("%w: token exchange: %v", common.ErrInvalidInput, err)
	}

	return p.fetchUserInfo(ctx, p.oauth.Client(ctx, token))
}

func (p *GoogleProvider) fetchUserInfo(ctx context.Context, client *http.Client) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo request failed with status %d", common.ErrInvalidInput, resp.StatusCode)
	}

	var payload struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}

	info := &UserInfo{
		Subject: strings.TrimSpace(payload.Sub),
		Email:   strings.ToLower(strings.TrimSpace(payload.Email)),
		Name:    payload.Name,
	}
	if info.Subject == "" {
		return nil, fmt.Errorf("%w: provider returned no subject", common.ErrInvalidInput)
	}
	if info.Email == "" {
		return nil, fmt.Errorf("%w: provider returned no email", common.ErrInvalidInput)
	}
	return info, nil
}
