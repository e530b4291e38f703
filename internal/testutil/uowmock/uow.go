package uowmock

import (
	"context"
	"errors"

	"aura-lend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in WithinTxFn in a test; when unset WithinTx returns errUnimplemented.
type UoW struct {
	WithinTxFn func(ctx context.Context, fn func(r uow.Repos) error) error
	Calls      int
}

// Convenience fluent setters
func New() *UoW { return &UoW{} }
func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}

// Wrapping runs every transaction on inner after letting patch replace
// some of its repositories.
func Wrapping(inner uow.UnitOfWork, patch func(r *uow.Repos)) *UoW {
	return New().WithWithinTx(func(ctx context.Context, fn func(uow.Repos) error) error {
		return inner.WithinTx(ctx, func(r uow.Repos) error {
			patch(&r)
			return fn(r)
		})
	})
}

func (m *UoW) Reset() { *m = UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	m.Calls++
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
