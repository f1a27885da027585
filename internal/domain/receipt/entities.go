package receipt

import (
	"errors"
	"math"
	"math/bits"
	"time"

	"private-credit-pool/internal/domain/pool"
)

var (
	ErrNotFound          = errors.New("receipt account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Mint is the per-pool receipt token mint: total supply plus the mint-side
// NAV mirror. transfer_gated/kyc_required are carried for the external token
// ledger; this engine never moves tokens between holders.
type Mint struct {
	ID            uint64    `gorm:"primaryKey;column:id" json:"-"`
	MintKey       string    `gorm:"size:64;uniqueIndex:ux_receipt_mints_key" json:"mint_key"`
	PoolKey       string    `gorm:"size:64;index:idx_receipt_mints_pool" json:"pool_key"`
	TotalSupply   uint64    `gorm:"column:total_supply" json:"total_supply"`
	NavPerToken   uint64    `gorm:"column:nav_per_token" json:"nav_per_token"`
	LastNavUpdate time.Time `gorm:"column:last_nav_update" json:"last_nav_update"`
	TransferGated bool      `gorm:"column:transfer_gated" json:"transfer_gated"`
	KycRequired   bool      `gorm:"column:kyc_required" json:"kyc_required"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Mint) TableName() string { return "receipt_mints" }

// TokenAccount is one (pool, holder) balance. The amount only moves through
// attested mint/burn; arithmetic is checked, never wrapping.
type TokenAccount struct {
	ID           uint64    `gorm:"primaryKey;column:id" json:"-"`
	AccountKey   string    `gorm:"size:64;uniqueIndex:ux_receipt_accounts_key" json:"account_key"`
	PoolKey      string    `gorm:"size:64;index:idx_receipt_accounts_pool" json:"pool_key"`
	Owner        string    `gorm:"size:64;index:idx_receipt_accounts_owner" json:"owner"`
	MintRef      string    `gorm:"size:64" json:"mint_ref"`
	Amount       uint64    `gorm:"column:amount" json:"amount"`
	NavAtMint    uint64    `gorm:"column:nav_at_mint" json:"nav_at_mint"`
	MintedAt     time.Time `gorm:"column:minted_at" json:"minted_at"`
	LastClaimAt  time.Time `gorm:"column:last_claim_at" json:"last_claim_at"`
	TotalClaimed uint64    `gorm:"column:total_claimed" json:"total_claimed"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (TokenAccount) TableName() string { return "receipt_token_accounts" }

func (a *TokenAccount) AddAmount(amount uint64) error {
	if amount > math.MaxUint64-a.Amount {
		return ErrInsufficientFunds
	}
	a.Amount += amount
	return nil
}

func (a *TokenAccount) SubAmount(amount uint64) error {
	if amount > a.Amount {
		return ErrInsufficientFunds
	}
	a.Amount -= amount
	return nil
}

func (a *TokenAccount) AddClaimed(value uint64) error {
	if value > math.MaxUint64-a.TotalClaimed {
		return ErrInsufficientFunds
	}
	a.TotalClaimed += value
	return nil
}

// RedemptionValue prices a burn: the base value at mint-time NAV plus the
// appreciation since. Depreciation floors at zero, so redemption never drops
// below the base value and is monotonic in currentNav - navAtMint.
func RedemptionValue(amount, navAtMint, currentNav uint64) (uint64, error) {
	base, err := mulDivUnit(amount, navAtMint)
	if err != nil {
		return 0, err
	}
	var appreciation uint64
	if currentNav > navAtMint {
		appreciation, err = mulDivUnit(amount, currentNav-navAtMint)
		if err != nil {
			return 0, err
		}
	}
	if appreciation > math.MaxUint64-base {
		return 0, ErrInsufficientFunds
	}
	return base + appreciation, nil
}

// mulDivUnit computes amount * nav / UnitNav with a 128-bit intermediate.
func mulDivUnit(amount, nav uint64) (uint64, error) {
	hi, lo := bits.Mul64(amount, nav)
	if hi >= pool.UnitNav {
		return 0, ErrInsufficientFunds
	}
	q, _ := bits.Div64(hi, lo, pool.UnitNav)
	return q, nil
}
