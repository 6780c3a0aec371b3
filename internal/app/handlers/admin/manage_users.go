package admin

import (
	"context"
	"errors"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	domainuser "staybook/internal/domain/user"
)

const (
	listUsersKey      = "admin.list_users"
	setUserBlockedKey = "admin.set_user_blocked"
)

var ErrSelfBlock = errors.New("admin: administrators cannot block themselves")

type ListUsersQuery struct {
	Query  string
	Role   string
	Limit  int
	Offset int
}

func (q ListUsersQuery) Key() string { return listUsersKey }

type ListUsersHandler struct {
	UoWFactory uow.Factory
}

func (h *ListUsersHandler) Handle(ctx context.Context, q ListUsersQuery) (dto.UserCollection, error) {
	ctx, unit, managed, err := uow.Require(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return dto.UserCollection{}, err
	}
	if managed {
		defer func() { _ = unit.Rollback(ctx) }()
	}

	result, err := unit.Users().List(ctx, domainuser.ListParams{
		Query:  q.Query,
		Role:   domainuser.Role(q.Role),
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		return dto.UserCollection{}, err
	}
	items := make([]dto.UserSummary, 0, len(result.Items))
	for _, u := range result.Items {
		items = append(items, dto.MapUserSummary(u))
	}
	return dto.UserCollection{Items: items, Total: result.Total}, nil
}

// SetUserBlockedCommand toggles a user's access. Blocking also invalidates
// the user's sessions at the HTTP layer.
type SetUserBlockedCommand struct {
	UserID  string
	AdminID string
	Blocked bool
}

func (c SetUserBlockedCommand) Key() string { return setUserBlockedKey }

type SetUserBlockedHandler struct {
	UoWFactory uow.Factory
	Now        func() time.Time
}

func (h *SetUserBlockedHandler) Handle(ctx context.Context, cmd SetUserBlockedCommand) (struct{}, error) {
	var zero struct{}
	if cmd.UserID == cmd.AdminID {
		return zero, ErrSelfBlock
	}
	ctx, unit, managed, err := uow.Require(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return zero, err
	}
	committed := false
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	u, err := unit.Users().ByID(ctx, domainuser.ID(cmd.UserID))
	if err != nil {
		return zero, err
	}
	now := nowOf(h.Now)
	if cmd.Blocked {
		u.Block(now)
	} else {
		u.Unblock(now)
	}
	if err := unit.Users().Save(ctx, u); err != nil {
		return zero, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return zero, err
		}
		committed = true
	}
	return zero, nil
}

var _ queries.Handler[ListUsersQuery, dto.UserCollection] = (*ListUsersHandler)(nil)
var _ commands.Handler[SetUserBlockedCommand, struct{}] = (*SetUserBlockedHandler)(nil)
