package mysql

import (
	"context"
	"errors"

	"private-credit-pool/internal/domain/pool"
	"private-credit-pool/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func txRepos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Pools:        &PoolRepository{db: tx},
		Loans:        &LoanRepository{db: tx},
		Attestations: &AttestationRepository{db: tx},
		Receipts:     &ReceiptRepository{db: tx},
		Audits:       &AuditRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(txRepos(tx))
	})
}

func (u *GormUoW) WithinPoolTx(ctx context.Context, poolKey string, fn func(r uow.Repos, p *pool.Record) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := txRepos(tx)
		// lock the pool row up-front to prevent races on the aggregates
		p, err := r.Pools.GetByPoolKeyForUpdate(ctx, poolKey)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pool.ErrNotFound
			}
			return err
		}
		return fn(r, p)
	})
}
