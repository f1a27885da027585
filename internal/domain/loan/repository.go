package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Commit) error
	GetByLoanID(ctx context.Context, loanID string) (*Commit, error)
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Commit, error)
	Save(ctx context.Context, l *Commit) error
}
