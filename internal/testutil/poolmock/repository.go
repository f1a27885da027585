package poolmock

import (
	"context"

	domain "private-credit-pool/internal/domain/pool"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies pool.Repository.
// Fill in only the function fields a test needs; writes default to success,
// reads default to record-not-found.
type Repo struct {
	CreateFn                func(ctx context.Context, p *domain.Record) error
	GetByPoolKeyFn          func(ctx context.Context, poolKey string) (*domain.Record, error)
	GetByPoolKeyForUpdateFn func(ctx context.Context, poolKey string) (*domain.Record, error)
	SaveFn                  func(ctx context.Context, p *domain.Record) error
}

func (m *Repo) Create(ctx context.Context, p *domain.Record) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) GetByPoolKey(ctx context.Context, poolKey string) (*domain.Record, error) {
	if m.GetByPoolKeyFn != nil {
		return m.GetByPoolKeyFn(ctx, poolKey)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByPoolKeyForUpdate(ctx context.Context, poolKey string) (*domain.Record, error) {
	if m.GetByPoolKeyForUpdateFn != nil {
		return m.GetByPoolKeyForUpdateFn(ctx, poolKey)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) Save(ctx context.Context, p *domain.Record) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}
