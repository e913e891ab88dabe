package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
)

const (
	ProviderGoogle = "google"

	googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
	stateBytes        = 32
)

var (
	ErrExchangeFailed   = errors.New("oauth: code exchange failed")
	ErrUserInfoFailed   = errors.New("oauth: failed to fetch user info")
	ErrEmailNotVerified = errors.New("oauth: provider email is not verified")
)

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// GoogleProvider runs the authorization code flow against Google and turns the
// result into a services.Identity.
type GoogleProvider struct {
	conf        *oauth2.Config
	userInfoURL string
}

func NewGoogleProvider(cfg Config) *GoogleProvider {
	return &GoogleProvider{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
	}
}

// WithEndpoint points the provider at another token and user info server.
func (p *GoogleProvider) WithEndpoint(endpoint oauth2.Endpoint, userInfoURL string) *GoogleProvider {
	p.conf.Endpoint = endpoint
	p.userInfoURL = userInfoURL
	return p
}

func (p *GoogleProvider) Name() string {
	return ProviderGoogle
}

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

type userInfo struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (services.Identity, error) {
	token, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return services.Identity{}, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return services.Identity{}, err
	}

	resp, err := p.conf.Client(ctx, token).Do(req)
	if err != nil {
		return services.Identity{}, fmt.Errorf("%w: %v", ErrUserInfoFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return services.Identity{}, fmt.Errorf("%w: status %d", ErrUserInfoFailed, resp.StatusCode)
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return services.Identity{}, fmt.Errorf("%w: %v", ErrUserInfoFailed, err)
	}
	if info.Subject == "" {
		return services.Identity{}, fmt.Errorf("%w: missing subject", ErrUserInfoFailed)
	}
	if !info.EmailVerified {
		return services.Identity{}, ErrEmailNotVerified
	}

	return services.Identity{
		Provider: ProviderGoogle,
		Subject:  info.Subject,
		Email:    info.Email,
		Name:     info.Name,
	}, nil
}

// NewState returns a random value for the oauth_state cookie.
func NewState() (string, error) {
	b := make([]byte, stateBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
