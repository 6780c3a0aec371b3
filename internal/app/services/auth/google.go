package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	domainuser "staybook/internal/domain/user"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var ErrGoogleNotConfigured = errors.New("auth: google login is not configured")
var ErrEmailNotVerified = errors.New("auth: google account email is not verified")

// GoogleConfig carries the OAuth client registration for Google sign-in.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func (c GoogleConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

func (c GoogleConfig) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
		RedirectURL:  c.RedirectURL,
	}
}

// GoogleLoginURL builds the consent screen redirect for the given CSRF state.
func (s *Service) GoogleLoginURL(cfg GoogleConfig, state string) (string, error) {
	if !cfg.Enabled() {
		return "", ErrGoogleNotConfigured
	}
	return cfg.oauthConfig().AuthCodeURL(state), nil
}

type googleProfile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// CompleteGoogleLogin exchanges the callback code, loads the Google profile
// and signs the matching account in, creating it on first sight. An existing
// password account with the same email is linked to the Google identity.
func (s *Service) CompleteGoogleLogin(ctx context.Context, cfg GoogleConfig, code string) (*AuthResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	if !cfg.Enabled() {
		return nil, ErrGoogleNotConfigured
	}
	oauthCfg := cfg.oauthConfig()
	token, err := oauthCfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: google code exchange: %w", err)
	}

	profile, err := fetchGoogleProfile(ctx, oauthCfg.Client(ctx, token))
	if err != nil {
		return nil, err
	}
	if !profile.VerifiedEmail || profile.Email == "" {
		return nil, ErrEmailNotVerified
	}

	account, err := s.findOrCreateGoogleUser(ctx, profile)
	if err != nil {
		return nil, err
	}
	if account.Blocked {
		return nil, ErrUserBlocked
	}
	sessionToken, err := s.issueSession(ctx, account)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("user authenticated via google", "user_id", account.ID)
	}
	return &AuthResult{User: account, Token: sessionToken}, nil
}

func fetchGoogleProfile(ctx context.Context, client *http.Client) (googleProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return googleProfile{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return googleProfile{}, fmt.Errorf("auth: google userinfo fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return googleProfile{}, fmt.Errorf("auth: google userinfo status %d", resp.StatusCode)
	}
	var profile googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return googleProfile{}, fmt.Errorf("auth: google userinfo decode: %w", err)
	}
	return profile, nil
}

func (s *Service) findOrCreateGoogleUser(ctx context.Context, profile googleProfile) (*domainuser.User, error) {
	account, err := s.Users.ByGoogleID(ctx, profile.ID)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, domainuser.ErrNotFound) {
		return nil, err
	}

	account, err = s.Users.ByEmail(ctx, domainuser.NormalizeEmail(profile.Email))
	if err == nil {
		account.GoogleID = profile.ID
		if err := s.Users.Save(ctx, account); err != nil {
			return nil, err
		}
		return account, nil
	}
	if !errors.Is(err, domainuser.ErrNotFound) {
		return nil, err
	}

	name := profile.Name
	if name == "" {
		name = profile.Email
	}
	account, err = domainuser.New(domainuser.CreateParams{
		ID:        domainuser.ID(uuid.NewString()),
		Email:     profile.Email,
		Name:      name,
		GoogleID:  profile.ID,
		Roles:     []domainuser.Role{domainuser.RoleCustomer},
		CreatedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Users.Save(ctx, account); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("user registered via google", "user_id", account.ID, "email", account.Email)
	}
	return account, nil
}
