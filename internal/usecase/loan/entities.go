package loan

import (
	"time"

	domainAtt "private-credit-pool/internal/domain/attestation"
	domainLoan "private-credit-pool/internal/domain/loan"
)

type CreateCommitInput struct {
	PoolKey         string
	Caller          string // must be the pool authority
	LoanID          string // 64-char hex; generated when empty
	Borrower        string
	Lender          string
	CommitHash      string
	Amount          uint64
	InterestRateBps uint16
	Duration        uint64
	CollateralHash  string
	Tranche         uint8
	Maturity        int64
}

type UpdateStatusInput struct {
	LoanID      string
	Caller      string // must be the pool authority
	Target      domainLoan.Status
	Attestation *domainAtt.Data // nil only for pending -> cancelled
}

type CommitDTO struct {
	LoanID          string    `json:"loan_id"`
	PoolKey         string    `json:"pool_key"`
	Borrower        string    `json:"borrower"`
	Lender          string    `json:"lender"`
	CommitHash      string    `json:"commit_hash"`
	Status          string    `json:"status"`
	Amount          uint64    `json:"amount"`
	InterestRateBps uint16    `json:"interest_rate_bps"`
	Duration        uint64    `json:"duration"`
	CollateralHash  string    `json:"collateral_hash"`
	Tranche         uint8     `json:"tranche"`
	Maturity        int64     `json:"maturity"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toDTO(l *domainLoan.Commit) *CommitDTO {
	return &CommitDTO{
		LoanID:          l.LoanID,
		PoolKey:         l.PoolKey,
		Borrower:        l.Borrower,
		Lender:          l.Lender,
		CommitHash:      l.CommitHash,
		Status:          string(l.Status),
		Amount:          l.Amount,
		InterestRateBps: l.InterestRateBps,
		Duration:        l.Duration,
		CollateralHash:  l.CollateralHash,
		Tranche:         l.Tranche,
		Maturity:        l.Maturity,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}
