package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "staybook/internal/domain/auth"
	domainuser "staybook/internal/domain/user"
	"staybook/internal/infra/session"
	"staybook/internal/infra/storage/memory"
)

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return fmt.Errorf("mismatch")
	}
	return nil
}

type sequenceTokens struct {
	n int
}

func (g *sequenceTokens) NewToken() (string, error) {
	g.n++
	return fmt.Sprintf("token-%d", g.n), nil
}

func newTestService() (*Service, *memory.UserRepository) {
	users := memory.NewUserRepository()
	svc := &Service{
		Users:      users,
		Sessions:   session.NewMemoryStore(),
		Hub:        domainauth.NewHub(),
		Passwords:  plainHasher{},
		Tokens:     &sequenceTokens{},
		SessionTTL: time.Hour,
	}
	return svc, users
}

func TestRegister(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterParams{
		Email:    "Guest@Example.com",
		Name:     "Guest",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.Equal(t, "guest@example.com", result.User.Email)
	assert.Equal(t, []domainuser.Role{domainuser.RoleCustomer}, result.User.Roles)
	assert.NotEmpty(t, result.Token)

	resolved, err := svc.ResolveToken(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, resolved.User.ID)
}

func TestRegisterOwnerRole(t *testing.T) {
	svc, _ := newTestService()

	result, err := svc.Register(context.Background(), RegisterParams{
		Email:       "owner@example.com",
		Name:        "Owner",
		Password:    "supersecret",
		WantToOwner: true,
	})
	require.NoError(t, err)
	assert.Contains(t, result.User.Roles, domainuser.RoleOwner)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), RegisterParams{
		Email:    "guest@example.com",
		Name:     "Guest",
		Password: "short",
	})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	params := RegisterParams{Email: "guest@example.com", Name: "Guest", Password: "supersecret"}
	_, err := svc.Register(ctx, params)
	require.NoError(t, err)

	_, err = svc.Register(ctx, params)
	assert.ErrorIs(t, err, domainuser.ErrEmailAlreadyUsed)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterParams{Email: "guest@example.com", Name: "Guest", Password: "supersecret"})
	require.NoError(t, err)

	result, err := svc.Login(ctx, LoginParams{Email: "guest@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, result.User.ID)
	assert.NotEqual(t, registered.Token, result.Token)

	_, err = svc.Login(ctx, LoginParams{Email: "guest@example.com", Password: "wrongpass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginParams{Email: "nobody@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginBlockedUser(t *testing.T) {
	svc, users := newTestService()
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterParams{Email: "guest@example.com", Name: "Guest", Password: "supersecret"})
	require.NoError(t, err)

	account, err := users.ByID(ctx, result.User.ID)
	require.NoError(t, err)
	account.Block(time.Now())
	require.NoError(t, users.Save(ctx, account))

	_, err = svc.Login(ctx, LoginParams{Email: "guest@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, ErrUserBlocked)
}

func TestLogout(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterParams{Email: "guest@example.com", Name: "Guest", Password: "supersecret"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, result.Token))

	_, err = svc.ResolveToken(ctx, result.Token)
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)

	// Logging out an unknown token is a no-op.
	assert.NoError(t, svc.Logout(ctx, "gone"))
}

func TestResolveTokenBlockedUserRevokesSessions(t *testing.T) {
	svc, users := newTestService()
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterParams{Email: "guest@example.com", Name: "Guest", Password: "supersecret"})
	require.NoError(t, err)
	second, err := svc.Login(ctx, LoginParams{Email: "guest@example.com", Password: "supersecret"})
	require.NoError(t, err)

	account, err := users.ByID(ctx, result.User.ID)
	require.NoError(t, err)
	account.Block(time.Now())
	require.NoError(t, users.Save(ctx, account))

	_, err = svc.ResolveToken(ctx, result.Token)
	assert.ErrorIs(t, err, ErrUserBlocked)

	// Every session for the blocked user is gone, not just the one checked.
	_, err = svc.ResolveToken(ctx, second.Token)
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)
}

func TestRevokeUserSessions(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterParams{Email: "guest@example.com", Name: "Guest", Password: "supersecret"})
	require.NoError(t, err)

	changes, cancel := svc.Hub.Subscribe()
	defer cancel()

	require.NoError(t, svc.RevokeUserSessions(ctx, result.User.ID))

	_, err = svc.ResolveToken(ctx, result.Token)
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)

	select {
	case change := <-changes:
		assert.Equal(t, domainauth.SessionEnded, change.Kind)
		assert.Equal(t, result.User.ID, change.UserID)
	case <-time.After(time.Second):
		t.Fatal("expected a session change on the hub")
	}
}
