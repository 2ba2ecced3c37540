package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

const (
	oauthStateTTL          = 10 * time.Minute
	maxTokenResponseBytes  = 1 << 20
	defaultDiscordOAuthAPI = "https://discord.com/api/v10"
)

var DefaultOAuthScopes = []string{"identify", "guilds"}

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	// APIURL is the Discord API base, e.g. https://discord.com/api/v10.
	APIURL string
	Scopes []string
}

type OAuthService struct {
	config     OAuthConfig
	httpClient *http.Client
	states     *ttlcache.Cache[string, struct{}]
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
}

func NewOAuthService(cfg OAuthConfig, httpClient *http.Client) *OAuthService {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if cfg.APIURL == "" {
		cfg.APIURL = defaultDiscordOAuthAPI
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = DefaultOAuthScopes
	}

	return &OAuthService{
		config:     cfg,
		httpClient: httpClient,
		states:     ttlcache.New(ttlcache.WithTTL[string, struct{}](oauthStateTTL)),
	}
}

// Start runs the expired-state janitor until Stop is called.
func (s *OAuthService) Start() {
	s.states.Start()
}

func (s *OAuthService) Stop() {
	s.states.Stop()
}

// AuthorizationURL returns the Discord consent URL carrying a fresh one-time state.
func (s *OAuthService) AuthorizationURL() (string, error) {
	state, err := newState()
	if err != nil {
		return "", fmt.Errorf("failed to generate oauth state: %w", err)
	}
	s.states.Set(state, struct{}{}, ttlcache.DefaultTTL)

	q := url.Values{}
	q.Set("client_id", s.config.ClientID)
	q.Set("redirect_uri", s.config.RedirectURI)
	q.Set("response_type", "code")
	q.Set("scope", strings.Join(s.config.Scopes, " "))
	q.Set("state", state)

	return s.config.APIURL + "/oauth2/authorize?" + q.Encode(), nil
}

// ConsumeState reports whether state was issued by AuthorizationURL and not
// used yet.
func (s *OAuthService) ConsumeState(state string) bool {
	if state == "" {
		return false
	}
	if item := s.states.Get(state); item == nil {
		return false
	}
	s.states.Delete(state)
	return true
}

// Exchange trades an authorization code for an access token.
func (s *OAuthService) Exchange(ctx context.Context, code string) (*TokenResponse, error) {
	if code == "" {
		return nil, ErrMissingOAuthCode
	}

	values := url.Values{}
	values.Set("client_id", s.config.ClientID)
	values.Set("client_secret", s.config.ClientSecret)
	values.Set("grant_type", "authorization_code")
	values.Set("code", code)
	values.Set("redirect_uri", s.config.RedirectURI)
	values.Set("scope", strings.Join(s.config.Scopes, " "))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.APIURL+"/oauth2/token", strings.NewReader(values.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create token exchange request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exchange code for token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &TokenExchangeError{Status: resp.StatusCode, Body: string(body)}
	}

	var token TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, errors.New("token response missing access_token")
	}
	return &token, nil
}

func newState() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
