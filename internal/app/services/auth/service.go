package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	domainauth "staybook/internal/domain/auth"
	domainuser "staybook/internal/domain/user"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrPasswordTooShort   = errors.New("auth: password must be at least 8 characters")
	ErrUserBlocked        = errors.New("auth: user blocked")
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenGenerator interface {
	NewToken() (string, error)
}

// Service owns the account lifecycle: registration, credential and Google
// sign-in, opaque session tokens, and session teardown. Session changes are
// broadcast on the hub so interested listeners (connection registries,
// audit sinks) can react without polling the store.
type Service struct {
	Users      domainuser.Repository
	Sessions   domainauth.SessionStore
	Hub        *domainauth.Hub
	Passwords  PasswordHasher
	Tokens     TokenGenerator
	SessionTTL time.Duration
	Logger     *slog.Logger
}

type RegisterParams struct {
	Email       string
	Name        string
	Password    string
	WantToOwner bool
}

type LoginParams struct {
	Email    string
	Password string
}

type AuthResult struct {
	User  *domainuser.User
	Token string
}

type ResolveResult struct {
	User    *domainuser.User
	Session *domainauth.Session
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	email := domainuser.NormalizeEmail(params.Email)
	name := strings.TrimSpace(params.Name)
	if email == "" {
		return nil, domainuser.ErrEmailRequired
	}
	if name == "" {
		return nil, domainuser.ErrNameRequired
	}
	if err := s.validatePassword(params.Password); err != nil {
		return nil, err
	}
	if _, err := s.Users.ByEmail(ctx, email); err == nil {
		return nil, domainuser.ErrEmailAlreadyUsed
	} else if !errors.Is(err, domainuser.ErrNotFound) {
		return nil, err
	}
	hash, err := s.Passwords.Hash(params.Password)
	if err != nil {
		return nil, err
	}
	roles := []domainuser.Role{domainuser.RoleCustomer}
	if params.WantToOwner {
		roles = append(roles, domainuser.RoleOwner)
	}
	account, err := domainuser.New(domainuser.CreateParams{
		ID:           domainuser.ID(uuid.NewString()),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Roles:        roles,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Users.Save(ctx, account); err != nil {
		return nil, err
	}
	token, err := s.issueSession(ctx, account)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("user registered", "user_id", account.ID, "email", account.Email, "roles", account.Roles)
	}
	return &AuthResult{User: account, Token: token}, nil
}

func (s *Service) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	email := domainuser.NormalizeEmail(params.Email)
	if email == "" {
		return nil, ErrInvalidCredentials
	}
	account, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if account.Blocked {
		return nil, ErrUserBlocked
	}
	if account.PasswordHash == "" {
		// Google-only account, no password to compare.
		return nil, ErrInvalidCredentials
	}
	if err := s.Passwords.Compare(account.PasswordHash, params.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, err := s.issueSession(ctx, account)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("user authenticated", "user_id", account.ID)
	}
	return &AuthResult{User: account, Token: token}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.ensureDependencies(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	session, err := s.Sessions.Get(ctx, domainauth.Token(token))
	if err != nil {
		if errors.Is(err, domainauth.ErrSessionNotFound) {
			return nil
		}
		return err
	}
	if err := s.Sessions.Delete(ctx, session.Token); err != nil {
		return err
	}
	s.publish(domainauth.Change{Kind: domainauth.SessionEnded, UserID: session.UserID, Roles: session.Roles})
	if s.Logger != nil {
		s.Logger.Info("session terminated", "user_id", session.UserID)
	}
	return nil
}

// RevokeUserSessions drops every session a user holds, used when an
// administrator blocks the account.
func (s *Service) RevokeUserSessions(ctx context.Context, userID domainuser.ID) error {
	if err := s.ensureDependencies(); err != nil {
		return err
	}
	if err := s.Sessions.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	s.publish(domainauth.Change{Kind: domainauth.SessionEnded, UserID: userID})
	return nil
}

func (s *Service) ResolveToken(ctx context.Context, token string) (*ResolveResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domainauth.ErrTokenRequired
	}
	session, err := s.Sessions.Get(ctx, domainauth.Token(token))
	if err != nil {
		return nil, err
	}
	if session.Expired(time.Now()) {
		_ = s.Sessions.Delete(ctx, session.Token)
		return nil, domainauth.ErrSessionNotFound
	}
	account, err := s.Users.ByID(ctx, session.UserID)
	if err != nil {
		_ = s.Sessions.Delete(ctx, session.Token)
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, domainauth.ErrSessionNotFound
		}
		return nil, err
	}
	if account.Blocked {
		_ = s.Sessions.DeleteByUser(ctx, account.ID)
		return nil, ErrUserBlocked
	}
	return &ResolveResult{User: account, Session: session}, nil
}

func (s *Service) issueSession(ctx context.Context, account *domainuser.User) (string, error) {
	token, err := s.Tokens.NewToken()
	if err != nil {
		return "", err
	}
	session, err := domainauth.NewSession(domainauth.CreateSessionParams{
		Token:  domainauth.Token(token),
		UserID: account.ID,
		Roles:  append([]domainuser.Role(nil), account.Roles...),
		TTL:    s.sessionTTL(),
		Now:    time.Now(),
	})
	if err != nil {
		return "", err
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		return "", err
	}
	s.publish(domainauth.Change{Kind: domainauth.SessionStarted, UserID: account.ID, Roles: session.Roles})
	return token, nil
}

func (s *Service) publish(change domainauth.Change) {
	if s.Hub != nil {
		s.Hub.Publish(change)
	}
}

func (s *Service) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return 24 * time.Hour
}

func (s *Service) validatePassword(password string) error {
	if utf8.RuneCountInString(password) < 8 {
		return ErrPasswordTooShort
	}
	return nil
}

func (s *Service) ensureDependencies() error {
	switch {
	case s.Users == nil:
		return errors.New("auth: user repository required")
	case s.Sessions == nil:
		return errors.New("auth: session store required")
	case s.Passwords == nil:
		return errors.New("auth: password hasher required")
	case s.Tokens == nil:
		return errors.New("auth: token generator required")
	default:
		return nil
	}
}
