package mysql

import (
	"context"

	attDomain "private-credit-pool/internal/domain/attestation"

	"gorm.io/gorm"
)

type AttestationRepository struct{ db *gorm.DB }

func NewAttestationRepository(db *gorm.DB) *AttestationRepository {
	return &AttestationRepository{db: db}
}

func (r *AttestationRepository) Create(ctx context.Context, rec *attDomain.Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *AttestationRepository) Save(ctx context.Context, rec *attDomain.Record) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *AttestationRepository) GetByHash(ctx context.Context, attestationHash string) (*attDomain.Record, error) {
	var out attDomain.Record
	res := r.db.WithContext(ctx).Where("attestation_hash = ?", attestationHash).First(&out)
	return &out, res.Error
}
