package uowmock

import (
	"context"
	"errors"

	"private-credit-pool/internal/domain/pool"
	"private-credit-pool/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn     func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinPoolTxFn func(ctx context.Context, poolKey string, fn func(r uow.Repos, p *pool.Record) error) error
}

// Convenience fluent setters
func New() *UoW { return &UoW{} }
func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinPoolTx(fn func(context.Context, string, func(uow.Repos, *pool.Record) error) error) *UoW {
	m.WithinPoolTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

// Passthrough builds a UoW that runs the body synchronously against the given
// repos, handing WithinPoolTx the given pool record (or pool.ErrNotFound when
// nil). Most usecase tests want exactly this.
func Passthrough(repos uow.Repos, p *pool.Record) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(r uow.Repos) error) error {
			return fn(repos)
		},
		WithinPoolTxFn: func(ctx context.Context, poolKey string, fn func(r uow.Repos, p *pool.Record) error) error {
			if p == nil || p.PoolKey != poolKey {
				return pool.ErrNotFound
			}
			return fn(repos, p)
		},
	}
}

// Methods implementing UnitOfWork
func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinPoolTx(ctx context.Context, poolKey string, fn func(r uow.Repos, p *pool.Record) error) error {
	if m.WithinPoolTxFn != nil {
		return m.WithinPoolTxFn(ctx, poolKey, fn)
	}
	return errUnimplemented
}
