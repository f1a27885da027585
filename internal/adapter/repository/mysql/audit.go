package mysql

import (
	"context"

	auditDomain "private-credit-pool/internal/domain/audit"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AuditRepository struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) *AuditRepository { return &AuditRepository{db: db} }

func (r *AuditRepository) Create(ctx context.Context, req *auditDomain.Request) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *AuditRepository) Save(ctx context.Context, req *auditDomain.Request) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *AuditRepository) GetByRequestKey(ctx context.Context, requestKey string) (*auditDomain.Request, error) {
	var out auditDomain.Request
	res := r.db.WithContext(ctx).Where("request_key = ?", requestKey).First(&out)
	return &out, res.Error
}

func (r *AuditRepository) GetByRequestKeyForUpdate(ctx context.Context, requestKey string) (*auditDomain.Request, error) {
	var out auditDomain.Request
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("request_key = ?", requestKey).
		First(&out)
	return &out, res.Error
}
