package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/app/commands"
	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
	domainhotel "staybook/internal/domain/hotel"
	domainuser "staybook/internal/domain/user"
	domainwallet "staybook/internal/domain/wallet"
)

type sessionCtxKey struct{}

// stubUnit mimics a storage backend whose repositories only see the
// transaction when the session travels through context.
type stubUnit struct {
	injected   bool
	committed  bool
	rolledBack bool
}

func (u *stubUnit) Hotels() domainhotel.Repository     { return nil }
func (u *stubUnit) Bookings() domainbooking.Repository { return nil }
func (u *stubUnit) Users() domainuser.Repository       { return nil }
func (u *stubUnit) Wallets() domainwallet.Repository   { return nil }

func (u *stubUnit) Commit(ctx context.Context) error {
	u.committed = true
	return nil
}

func (u *stubUnit) Rollback(ctx context.Context) error {
	u.rolledBack = true
	return nil
}

func (u *stubUnit) InjectContext(ctx context.Context) context.Context {
	u.injected = true
	return context.WithValue(ctx, sessionCtxKey{}, u)
}

type stubFactory struct {
	unit *stubUnit
}

func (f stubFactory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	return f.unit, nil
}

type noopCommand struct{}

func (noopCommand) Key() string { return "test.noop" }

type noopHandler struct {
	sawSession bool
	fail       bool
}

func (h *noopHandler) Handle(ctx context.Context, cmd noopCommand) (struct{}, error) {
	h.sawSession = ctx.Value(sessionCtxKey{}) != nil
	if h.fail {
		return struct{}{}, errors.New("handler failed")
	}
	return struct{}{}, nil
}

func TestTransactionInjectsSessionContext(t *testing.T) {
	unit := &stubUnit{}
	handler := &noopHandler{}
	base := commands.NewInMemoryBus()
	commands.RegisterHandler(base, noopCommand{}.Key(), handler)
	bus := ChainCommands(base, Transaction(stubFactory{unit: unit}, nil))

	_, err := commands.Dispatch[noopCommand, struct{}](context.Background(), bus, noopCommand{})
	require.NoError(t, err)
	assert.True(t, unit.injected, "session context reaches the handler")
	assert.True(t, handler.sawSession)
	assert.True(t, unit.committed)
	assert.False(t, unit.rolledBack)
}

func TestTransactionRollsBackOnHandlerError(t *testing.T) {
	unit := &stubUnit{}
	handler := &noopHandler{fail: true}
	base := commands.NewInMemoryBus()
	commands.RegisterHandler(base, noopCommand{}.Key(), handler)
	bus := ChainCommands(base, Transaction(stubFactory{unit: unit}, nil))

	_, err := commands.Dispatch[noopCommand, struct{}](context.Background(), bus, noopCommand{})
	require.Error(t, err)
	assert.True(t, unit.rolledBack)
	assert.False(t, unit.committed)
}

func TestRequireInjectsSessionContext(t *testing.T) {
	unit := &stubUnit{}
	ctx, got, managed, err := uow.Require(context.Background(), stubFactory{unit: unit}, uow.TxOptions{})
	require.NoError(t, err)
	assert.True(t, managed)
	assert.Same(t, unit, got.(*stubUnit))
	assert.NotNil(t, ctx.Value(sessionCtxKey{}), "repositories resolve the session from context")

	// An ambient unit is reused as-is, without re-injecting.
	unit.injected = false
	_, reused, nested, err := uow.Require(ctx, stubFactory{unit: unit}, uow.TxOptions{})
	require.NoError(t, err)
	assert.False(t, nested)
	assert.Same(t, unit, reused.(*stubUnit))
	assert.False(t, unit.injected)
}
