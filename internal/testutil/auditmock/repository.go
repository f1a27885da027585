package auditmock

import (
	"context"

	domain "private-credit-pool/internal/domain/audit"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies audit.Repository.
// Fill in only the function fields a test needs; writes default to success,
// reads default to record-not-found.
type Repo struct {
	CreateFn                   func(ctx context.Context, r *domain.Request) error
	GetByRequestKeyFn          func(ctx context.Context, requestKey string) (*domain.Request, error)
	GetByRequestKeyForUpdateFn func(ctx context.Context, requestKey string) (*domain.Request, error)
	SaveFn                     func(ctx context.Context, r *domain.Request) error
}

func (m *Repo) Create(ctx context.Context, r *domain.Request) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetByRequestKey(ctx context.Context, requestKey string) (*domain.Request, error) {
	if m.GetByRequestKeyFn != nil {
		return m.GetByRequestKeyFn(ctx, requestKey)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByRequestKeyForUpdate(ctx context.Context, requestKey string) (*domain.Request, error) {
	if m.GetByRequestKeyForUpdateFn != nil {
		return m.GetByRequestKeyForUpdateFn(ctx, requestKey)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) Save(ctx context.Context, r *domain.Request) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, r)
	}
	return nil
}
