package mysql

import (
	"context"

	poolDomain "private-credit-pool/internal/domain/pool"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PoolRepository struct{ db *gorm.DB }

func NewPoolRepository(db *gorm.DB) *PoolRepository { return &PoolRepository{db: db} }

func (r *PoolRepository) Create(ctx context.Context, p *poolDomain.Record) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PoolRepository) Save(ctx context.Context, p *poolDomain.Record) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PoolRepository) GetByPoolKey(ctx context.Context, poolKey string) (*poolDomain.Record, error) {
	var out poolDomain.Record
	res := r.db.WithContext(ctx).Where("pool_key = ?", poolKey).First(&out)
	return &out, res.Error
}

func (r *PoolRepository) GetByPoolKeyForUpdate(ctx context.Context, poolKey string) (*poolDomain.Record, error) {
	var out poolDomain.Record
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("pool_key = ?", poolKey).
		First(&out)
	return &out, res.Error
}
