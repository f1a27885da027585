package loan

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("loan not found")
	ErrInvalidCommit     = errors.New("invalid loan commit")
	ErrInvalidTransition = errors.New("invalid loan status transition")
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusApproved   Status = "approved"
	StatusActive     Status = "active"
	StatusRepaid     Status = "repaid"
	StatusDefaulted  Status = "defaulted"
	StatusLiquidated Status = "liquidated"
	StatusCancelled  Status = "cancelled"
)

// transitions is the complete directed graph of legal status moves. Terminal
// states (repaid, liquidated, cancelled) have no outgoing edges.
var transitions = map[Status][]Status{
	StatusPending:   {StatusApproved, StatusCancelled},
	StatusApproved:  {StatusActive},
	StatusActive:    {StatusRepaid, StatusDefaulted},
	StatusDefaulted: {StatusLiquidated},
}

// CanTransition reports whether (from, to) is one of the permitted edges.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// MaxTranche caps the tranche index (4 tranches, 0-3).
const MaxTranche uint8 = 3

// Commit is the on-record loan commitment. The dormant interest fields
// (interest_rate_bps, duration, maturity) are carried as data; accrual
// scheduling is out of scope.
type Commit struct {
	ID              uint64    `gorm:"primaryKey;column:id" json:"-"`
	LoanID          string    `gorm:"size:64;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	PoolKey         string    `gorm:"size:64;index:idx_loans_pool_key" json:"pool_key"`
	Borrower        string    `gorm:"size:64" json:"borrower"`
	Lender          string    `gorm:"size:64" json:"lender"`
	CommitHash      string    `gorm:"size:64" json:"commit_hash"`
	Status          Status    `gorm:"size:16;default:'pending'" json:"status"`
	Amount          uint64    `gorm:"column:amount" json:"amount"`
	InterestRateBps uint16    `gorm:"column:interest_rate_bps" json:"interest_rate_bps"`
	Duration        uint64    `gorm:"column:duration" json:"duration"`
	CollateralHash  string    `gorm:"size:64" json:"collateral_hash"`
	Tranche         uint8     `gorm:"column:tranche" json:"tranche"`
	Maturity        int64     `gorm:"column:maturity" json:"maturity"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Commit) TableName() string { return "loan_commits" }
