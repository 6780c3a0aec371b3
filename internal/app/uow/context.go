package uow

import (
	"context"
	"errors"
)

var ErrUnitOfWorkMissing = errors.New("uow: unit of work missing from context")

type ctxKey struct{}

// ContextWithUnitOfWork stores the provided unit of work in context.
func ContextWithUnitOfWork(ctx context.Context, unit UnitOfWork) context.Context {
	return context.WithValue(ctx, ctxKey{}, unit)
}

// FromContext retrieves a unit of work from context if present.
func FromContext(ctx context.Context) (UnitOfWork, bool) {
	val := ctx.Value(ctxKey{})
	if val == nil {
		return nil, false
	}
	unit, ok := val.(UnitOfWork)
	return unit, ok
}

// Require returns the ambient unit of work or begins one from the factory,
// reporting whether the caller owns the transaction boundary.
func Require(ctx context.Context, factory Factory, opts TxOptions) (context.Context, UnitOfWork, bool, error) {
	if unit, ok := FromContext(ctx); ok {
		return ctx, unit, false, nil
	}
	if factory == nil {
		return ctx, nil, false, ErrUnitOfWorkMissing
	}
	unit, err := factory.Begin(ctx, opts)
	if err != nil {
		return ctx, nil, false, err
	}
	execCtx := ctx
	if injector, ok := unit.(interface {
		InjectContext(context.Context) context.Context
	}); ok {
		execCtx = injector.InjectContext(ctx)
	}
	return ContextWithUnitOfWork(execCtx, unit), unit, true, nil
}
