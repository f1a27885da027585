package attestationmock

import (
	"context"

	domain "private-credit-pool/internal/domain/attestation"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies attestation.Repository.
// Fill in only the function fields a test needs; writes default to success,
// reads default to record-not-found.
type Repo struct {
	CreateFn    func(ctx context.Context, r *domain.Record) error
	GetByHashFn func(ctx context.Context, attestationHash string) (*domain.Record, error)
	SaveFn      func(ctx context.Context, r *domain.Record) error
}

func (m *Repo) Create(ctx context.Context, r *domain.Record) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetByHash(ctx context.Context, attestationHash string) (*domain.Record, error) {
	if m.GetByHashFn != nil {
		return m.GetByHashFn(ctx, attestationHash)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) Save(ctx context.Context, r *domain.Record) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, r)
	}
	return nil
}

// Verified stores a single pre-verified record and serves it by hash, which
// is what most attestation-gated usecase tests need.
func Verified(rec *domain.Record) *Repo {
	rec.Verified = true
	return &Repo{
		GetByHashFn: func(_ context.Context, hash string) (*domain.Record, error) {
			if hash == rec.AttestationHash {
				return rec, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
}
