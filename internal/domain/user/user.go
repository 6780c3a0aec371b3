package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrIDRequired          = errors.New("user: id is required")
	ErrEmailRequired       = errors.New("user: email is required")
	ErrPasswordHashMissing = errors.New("user: password hash is required")
	ErrNameRequired        = errors.New("user: name is required")
	ErrInvalidRole         = errors.New("user: invalid role")
	ErrEmailAlreadyUsed    = errors.New("user: email already used")
	ErrNotFound            = errors.New("user: not found")
)

type ID string

type Role string

const (
	RoleCustomer Role = "customer"
	RoleOwner    Role = "owner"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID           ID
	Email        string
	Name         string
	PasswordHash string
	GoogleID     string
	Roles        []Role
	Blocked      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type ListParams struct {
	Query  string
	Role   Role
	Limit  int
	Offset int
}

type ListResult struct {
	Items []*User
	Total int
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
	ByGoogleID(ctx context.Context, googleID string) (*User, error)
	Save(ctx context.Context, user *User) error
	List(ctx context.Context, params ListParams) (ListResult, error)
}

type CreateParams struct {
	ID           ID
	Email        string
	Name         string
	PasswordHash string
	GoogleID     string
	Roles        []Role
	CreatedAt    time.Time
}

func New(params CreateParams) (*User, error) {
	id := strings.TrimSpace(string(params.ID))
	if id == "" {
		return nil, ErrIDRequired
	}
	email := NormalizeEmail(params.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	// A password hash is mandatory unless the account was created through
	// an external identity provider.
	if strings.TrimSpace(params.PasswordHash) == "" && strings.TrimSpace(params.GoogleID) == "" {
		return nil, ErrPasswordHashMissing
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	roles, err := normalizeRoles(params.Roles)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		roles = []Role{RoleCustomer}
	}

	return &User{
		ID:           ID(id),
		Email:        email,
		Name:         name,
		PasswordHash: params.PasswordHash,
		GoogleID:     strings.TrimSpace(params.GoogleID),
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (u *User) SetPasswordHash(hash string, now time.Time) error {
	if strings.TrimSpace(hash) == "" {
		return ErrPasswordHashMissing
	}
	u.PasswordHash = hash
	u.touch(now)
	return nil
}

// Block suspends the account; blocked users cannot authenticate.
func (u *User) Block(now time.Time) {
	u.Blocked = true
	u.touch(now)
}

func (u *User) Unblock(now time.Time) {
	u.Blocked = false
	u.touch(now)
}

// EnsureRole grants a role if not already held.
func (u *User) EnsureRole(role Role, now time.Time) error {
	role = normalizeRole(role)
	if role == "" {
		return ErrInvalidRole
	}
	if u.HasRole(role) {
		return nil
	}
	u.Roles = append(u.Roles, role)
	u.touch(now)
	return nil
}

func (u *User) HasRole(role Role) bool {
	role = normalizeRole(role)
	if role == "" {
		return false
	}
	for _, current := range u.Roles {
		if normalizeRole(current) == role {
			return true
		}
	}
	return false
}

func (u *User) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	u.UpdatedAt = now.UTC()
}

func normalizeRoles(roles []Role) ([]Role, error) {
	if len(roles) == 0 {
		return nil, nil
	}
	seen := make(map[Role]struct{}, len(roles))
	normalized := make([]Role, 0, len(roles))
	for _, role := range roles {
		nr := normalizeRole(role)
		if nr == "" {
			return nil, ErrInvalidRole
		}
		if _, ok := seen[nr]; ok {
			continue
		}
		seen[nr] = struct{}{}
		normalized = append(normalized, nr)
	}
	return normalized, nil
}

func normalizeRole(role Role) Role {
	switch strings.ToLower(strings.TrimSpace(string(role))) {
	case "customer":
		return RoleCustomer
	case "owner":
		return RoleOwner
	case "admin":
		return RoleAdmin
	default:
		return ""
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
