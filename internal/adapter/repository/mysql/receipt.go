package mysql

import (
	"context"

	receiptDomain "private-credit-pool/internal/domain/receipt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReceiptRepository struct{ db *gorm.DB }

func NewReceiptRepository(db *gorm.DB) *ReceiptRepository { return &ReceiptRepository{db: db} }

func (r *ReceiptRepository) CreateAccount(ctx context.Context, a *receiptDomain.TokenAccount) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ReceiptRepository) SaveAccount(ctx context.Context, a *receiptDomain.TokenAccount) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *ReceiptRepository) GetAccountByKey(ctx context.Context, accountKey string) (*receiptDomain.TokenAccount, error) {
	var out receiptDomain.TokenAccount
	res := r.db.WithContext(ctx).Where("account_key = ?", accountKey).First(&out)
	return &out, res.Error
}

func (r *ReceiptRepository) GetAccountByKeyForUpdate(ctx context.Context, accountKey string) (*receiptDomain.TokenAccount, error) {
	var out receiptDomain.TokenAccount
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("account_key = ?", accountKey).
		First(&out)
	return &out, res.Error
}

func (r *ReceiptRepository) CreateMint(ctx context.Context, m *receiptDomain.Mint) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *ReceiptRepository) SaveMint(ctx context.Context, m *receiptDomain.Mint) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *ReceiptRepository) GetMintByPoolKeyForUpdate(ctx context.Context, poolKey string) (*receiptDomain.Mint, error) {
	var out receiptDomain.Mint
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("pool_key = ?", poolKey).
		First(&out)
	return &out, res.Error
}
