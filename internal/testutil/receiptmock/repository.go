package receiptmock

import (
	"context"

	domain "private-credit-pool/internal/domain/receipt"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies receipt.Repository.
// Fill in only the function fields a test needs; writes default to success,
// reads default to record-not-found.
type Repo struct {
	CreateAccountFn            func(ctx context.Context, a *domain.TokenAccount) error
	GetAccountByKeyFn          func(ctx context.Context, accountKey string) (*domain.TokenAccount, error)
	GetAccountByKeyForUpdateFn func(ctx context.Context, accountKey string) (*domain.TokenAccount, error)
	SaveAccountFn              func(ctx context.Context, a *domain.TokenAccount) error

	CreateMintFn                func(ctx context.Context, m *domain.Mint) error
	GetMintByPoolKeyForUpdateFn func(ctx context.Context, poolKey string) (*domain.Mint, error)
	SaveMintFn                  func(ctx context.Context, m *domain.Mint) error
}

func (m *Repo) CreateAccount(ctx context.Context, a *domain.TokenAccount) error {
	if m.CreateAccountFn != nil {
		return m.CreateAccountFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetAccountByKey(ctx context.Context, accountKey string) (*domain.TokenAccount, error) {
	if m.GetAccountByKeyFn != nil {
		return m.GetAccountByKeyFn(ctx, accountKey)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetAccountByKeyForUpdate(ctx context.Context, accountKey string) (*domain.TokenAccount, error) {
	if m.GetAccountByKeyForUpdateFn != nil {
		return m.GetAccountByKeyForUpdateFn(ctx, accountKey)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) SaveAccount(ctx context.Context, a *domain.TokenAccount) error {
	if m.SaveAccountFn != nil {
		return m.SaveAccountFn(ctx, a)
	}
	return nil
}

func (m *Repo) CreateMint(ctx context.Context, mint *domain.Mint) error {
	if m.CreateMintFn != nil {
		return m.CreateMintFn(ctx, mint)
	}
	return nil
}

func (m *Repo) GetMintByPoolKeyForUpdate(ctx context.Context, poolKey string) (*domain.Mint, error) {
	if m.GetMintByPoolKeyForUpdateFn != nil {
		return m.GetMintByPoolKeyForUpdateFn(ctx, poolKey)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) SaveMint(ctx context.Context, mint *domain.Mint) error {
	if m.SaveMintFn != nil {
		return m.SaveMintFn(ctx, mint)
	}
	return nil
}
