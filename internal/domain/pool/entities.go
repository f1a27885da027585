package pool

import (
	"errors"
	"math"
	"time"
)

var (
	ErrNotFound       = errors.New("pool not found")
	ErrInvalidConfig  = errors.New("invalid pool configuration")
	ErrEmergencyPause = errors.New("emergency pause active")
	ErrUnauthorized   = errors.New("unauthorized access")
)

// UnitNav is 1.0 expressed with 6 implied decimal places. A fresh pool prices
// receipt tokens at unit NAV until the first attested NAV update lands.
const UnitNav uint64 = 1_000_000

// CovenantThresholds are the risk limits whose breach triggers attested status
// changes. All values are basis points.
type CovenantThresholds struct {
	MaxLTV             uint16 `gorm:"column:max_ltv" json:"max_ltv"`
	MinDSCR            uint16 `gorm:"column:min_dscr" json:"min_dscr"`
	MaxUtilization     uint16 `gorm:"column:max_utilization" json:"max_utilization"`
	MinCollateralRatio uint16 `gorm:"column:min_collateral_ratio" json:"min_collateral_ratio"`
}

type Config struct {
	MaxLoanAmount            uint64             `gorm:"column:max_loan_amount" json:"max_loan_amount"`
	MinLoanAmount            uint64             `gorm:"column:min_loan_amount" json:"min_loan_amount"`
	MaxLoanDuration          uint64             `gorm:"column:max_loan_duration" json:"max_loan_duration"`
	InterestRateBps          uint16             `gorm:"column:interest_rate_bps" json:"interest_rate_bps"`
	ManagementFeeBps         uint16             `gorm:"column:management_fee_bps" json:"management_fee_bps"`
	PerformanceFeeBps        uint16             `gorm:"column:performance_fee_bps" json:"performance_fee_bps"`
	ReserveRatioBps          uint16             `gorm:"column:reserve_ratio_bps" json:"reserve_ratio_bps"`
	InsuranceRatioBps        uint16             `gorm:"column:insurance_ratio_bps" json:"insurance_ratio_bps"`
	MaxBorrowerConcentration uint16             `gorm:"column:max_borrower_concentration" json:"max_borrower_concentration"`
	MinCreditScore           uint16             `gorm:"column:min_credit_score" json:"min_credit_score"`
	CovenantThresholds       CovenantThresholds `gorm:"embedded;embeddedPrefix:cov_" json:"covenant_thresholds"`
	EmergencyPause           bool               `gorm:"column:emergency_pause" json:"emergency_pause"`
}

// Validate enforces the configuration invariants shared by initialize and
// config updates.
func (c Config) Validate() error {
	if c.MaxLoanAmount == 0 {
		return ErrInvalidConfig
	}
	if c.MinLoanAmount > c.MaxLoanAmount {
		return ErrInvalidConfig
	}
	if c.InterestRateBps > 10_000 {
		return ErrInvalidConfig
	}
	return nil
}

// Record is the per-pool account: references, aggregate counters and the
// cached last-attested NAV. Counters change only through the accessor methods
// below so total_deposits stays reconcilable with the sum of receipt balances.
type Record struct {
	ID             uint64    `gorm:"primaryKey;column:id" json:"-"`
	PoolKey        string    `gorm:"size:64;uniqueIndex:ux_pools_pool_key" json:"pool_key"`
	Owner          string    `gorm:"size:64" json:"owner"`
	Authority      string    `gorm:"size:64;index:idx_pools_authority" json:"authority"`
	ReceiptMint    string    `gorm:"size:64" json:"receipt_mint"`
	EscrowMultisig string    `gorm:"size:64" json:"escrow_multisig"`
	NavCommitRoot  string    `gorm:"size:64" json:"nav_commit_root"`
	ReservedFunds  uint64    `gorm:"column:reserved_funds" json:"reserved_funds"`
	TotalDeposits  uint64    `gorm:"column:total_deposits" json:"total_deposits"`
	TotalLoans     uint64    `gorm:"column:total_loans" json:"total_loans"`
	NavPerToken    uint64    `gorm:"column:nav_per_token" json:"nav_per_token"`
	NavEpoch       uint64    `gorm:"column:nav_epoch" json:"nav_epoch"`
	LastNavUpdate  time.Time `gorm:"column:last_nav_update" json:"last_nav_update"`
	Config         Config    `gorm:"embedded;embeddedPrefix:cfg_" json:"config"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Record) TableName() string { return "pools" }

// AddDeposits bumps total_deposits with an overflow guard.
func (r *Record) AddDeposits(amount uint64) error {
	if amount > math.MaxUint64-r.TotalDeposits {
		return errors.New("total_deposits overflow")
	}
	r.TotalDeposits += amount
	return nil
}

// SubDeposits lowers total_deposits; going below zero is a caller bug, not a
// wraparound.
func (r *Record) SubDeposits(amount uint64) error {
	if amount > r.TotalDeposits {
		return errors.New("total_deposits underflow")
	}
	r.TotalDeposits -= amount
	return nil
}

func (r *Record) IncTotalLoans() { r.TotalLoans++ }

// CurrentNav returns the last attested NAV per token, defaulting to unit NAV
// before any NavUpdate attestation has been applied.
func (r *Record) CurrentNav() uint64 {
	if r.NavPerToken == 0 {
		return UnitNav
	}
	return r.NavPerToken
}

// ApplyNav caches an attested NAV value. Epochs never move backwards; the
// caller rejects stale attestations before getting here.
func (r *Record) ApplyNav(nav, epoch uint64, at time.Time) {
	r.NavPerToken = nav
	r.NavEpoch = epoch
	r.LastNavUpdate = at
}
