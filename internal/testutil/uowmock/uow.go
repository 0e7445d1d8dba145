package uowmock

import (
	"context"
	"errors"

	"sourcing-workflow/internal/domain/rfq"
	"sourcing-workflow/internal/domain/uow"
)

var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed uow.UnitOfWork. Unset functions return
// errUnimplemented.
type UoW struct {
	WithinTxFn         func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinLineItemTxFn func(ctx context.Context, lineItemID uint64, fn func(r uow.Repos, li *rfq.LineItem) error) error
}

func New() *UoW { return &UoW{} }

func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}

func (m *UoW) WithWithinLineItemTx(fn func(context.Context, uint64, func(uow.Repos, *rfq.LineItem) error) error) *UoW {
	m.WithinLineItemTxFn = fn
	return m
}

// Failing makes every unit of work return err without running its body.
func Failing(err error) *UoW {
	return &UoW{
		WithinTxFn: func(context.Context, func(uow.Repos) error) error { return err },
		WithinLineItemTxFn: func(context.Context, uint64, func(uow.Repos, *rfq.LineItem) error) error {
			return err
		},
	}
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinLineItemTx(ctx context.Context, lineItemID uint64, fn func(r uow.Repos, li *rfq.LineItem) error) error {
	if m.WithinLineItemTxFn != nil {
		return m.WithinLineItemTxFn(ctx, lineItemID, fn)
	}
	return errUnimplemented
}
