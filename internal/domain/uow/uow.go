package uow

import (
	"context"

	"private-credit-pool/internal/domain/attestation"
	"private-credit-pool/internal/domain/audit"
	"private-credit-pool/internal/domain/loan"
	"private-credit-pool/internal/domain/pool"
	"private-credit-pool/internal/domain/receipt"
)

type Repos struct {
	Pools        pool.Repository
	Loans        loan.Repository
	Attestations attestation.Repository
	Receipts     receipt.Repository
	Audits       audit.Repository
}

// UnitOfWork scopes one operation to one transaction: either every record the
// operation names commits, or none do.
type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the pool row first, then pass it in
	WithinPoolTx(ctx context.Context, poolKey string, fn func(r Repos, p *pool.Record) error) error
}
