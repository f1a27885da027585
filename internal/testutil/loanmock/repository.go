package loanmock

import (
	"context"

	domain "private-credit-pool/internal/domain/loan"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies loan.Repository.
// Fill in only the function fields a test needs; writes default to success,
// reads default to record-not-found.
type Repo struct {
	CreateFn               func(ctx context.Context, l *domain.Commit) error
	GetByLoanIDFn          func(ctx context.Context, loanID string) (*domain.Commit, error)
	GetByLoanIDForUpdateFn func(ctx context.Context, loanID string) (*domain.Commit, error)
	SaveFn                 func(ctx context.Context, l *domain.Commit) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Commit) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Commit, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Commit, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) Save(ctx context.Context, l *domain.Commit) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}
