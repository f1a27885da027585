package receipt

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	domainAtt "private-credit-pool/internal/domain/attestation"
	domainPool "private-credit-pool/internal/domain/pool"
	domainReceipt "private-credit-pool/internal/domain/receipt"
	"private-credit-pool/internal/domain/uow"
	attestationUC "private-credit-pool/internal/usecase/attestation"
	"private-credit-pool/pkg/seed"

	"gorm.io/gorm"
)

type Usecase struct {
	repo domainReceipt.Repository
	uow  uow.UnitOfWork
}

func NewUsecase(receipts domainReceipt.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repo: receipts, uow: tx}
}

type MintInput struct {
	PoolKey     string
	Caller      string // must be the pool authority
	Recipient   string
	Amount      uint64
	Attestation domainAtt.Data // verified NavUpdate for this pool
}

type BurnInput struct {
	PoolKey     string
	Caller      string // must be the pool authority
	Owner       string
	Amount      uint64
	Attestation domainAtt.Data
}

type AccountDTO struct {
	AccountKey   string    `json:"account_key"`
	PoolKey      string    `json:"pool_key"`
	Owner        string    `json:"owner"`
	Amount       uint64    `json:"amount"`
	NavAtMint    uint64    `json:"nav_at_mint"`
	MintedAt     time.Time `json:"minted_at"`
	LastClaimAt  time.Time `json:"last_claim_at"`
	TotalClaimed uint64    `json:"total_claimed"`
}

type BurnResult struct {
	Account         AccountDTO `json:"account"`
	RedemptionValue uint64     `json:"redemption_value"`
}

func toAccountDTO(a *domainReceipt.TokenAccount) AccountDTO {
	return AccountDTO{
		AccountKey:   a.AccountKey,
		PoolKey:      a.PoolKey,
		Owner:        a.Owner,
		Amount:       a.Amount,
		NavAtMint:    a.NavAtMint,
		MintedAt:     a.MintedAt,
		LastClaimAt:  a.LastClaimAt,
		TotalClaimed: a.TotalClaimed,
	}
}

// AccountKey derives the (pool, holder) receipt account address.
func AccountKey(poolKey, owner string) (string, error) {
	poolRaw, err := hex.DecodeString(poolKey)
	if err != nil || len(poolRaw) != 32 {
		return "", fmt.Errorf("invalid pool key")
	}
	ownerRaw, err := hex.DecodeString(owner)
	if err != nil || len(ownerRaw) != 32 {
		return "", fmt.Errorf("invalid owner address")
	}
	return seed.Derive("receipt_token", poolRaw, ownerRaw), nil
}

// Mint adds amount receipt units to the recipient's account against a
// verified NavUpdate attestation, bumping pool deposits and mint supply in
// the same transaction. A fresh (zero-balance) account snapshots the attested
// NAV as its nav_at_mint.
func (u *Usecase) Mint(ctx context.Context, in MintInput) (*AccountDTO, error) {
	acctKey, err := AccountKey(in.PoolKey, in.Recipient)
	if err != nil {
		return nil, err
	}

	var dto *AccountDTO
	err = u.uow.WithinPoolTx(ctx, in.PoolKey, func(r uow.Repos, p *domainPool.Record) error {
		if p.Authority != in.Caller {
			return domainPool.ErrUnauthorized
		}
		nav, err := attestedNav(ctx, r, p, in.Attestation)
		if err != nil {
			return err
		}
		if p.Config.EmergencyPause {
			return domainPool.ErrEmergencyPause
		}

		now := time.Now().UTC()
		if err := p.AddDeposits(in.Amount); err != nil {
			return domainReceipt.ErrInsufficientFunds
		}
		p.ApplyNav(nav.NewNav, nav.Epoch, now)

		acct, fresh, err := loadOrNewAccount(ctx, r, acctKey, p.PoolKey, in.Recipient)
		if err != nil {
			return err
		}
		if acct.Amount == 0 {
			acct.MintRef = p.ReceiptMint
			acct.NavAtMint = nav.NewNav
			acct.MintedAt = now
			acct.LastClaimAt = now
			acct.TotalClaimed = 0
		}
		if err := acct.AddAmount(in.Amount); err != nil {
			return err
		}

		m, err := r.Receipts.GetMintByPoolKeyForUpdate(ctx, p.PoolKey)
		if err != nil {
			return err
		}
		if err := addSupply(m, in.Amount); err != nil {
			return err
		}
		m.NavPerToken = nav.NewNav
		m.LastNavUpdate = now

		if err := r.Pools.Save(ctx, p); err != nil {
			return err
		}
		if fresh {
			err = r.Receipts.CreateAccount(ctx, acct)
		} else {
			err = r.Receipts.SaveAccount(ctx, acct)
		}
		if err != nil {
			return err
		}
		if err := r.Receipts.SaveMint(ctx, m); err != nil {
			return err
		}
		d := toAccountDTO(acct)
		dto = &d
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("receipt tokens minted: pool=%s recipient=%s amount=%d", in.PoolKey, in.Recipient, in.Amount)
	return dto, nil
}

// Burn redeems amount receipt units at the attested NAV. Only the entitlement
// is computed and recorded here; the settlement transfer is the escrow
// multisig's job.
func (u *Usecase) Burn(ctx context.Context, in BurnInput) (*BurnResult, error) {
	acctKey, err := AccountKey(in.PoolKey, in.Owner)
	if err != nil {
		return nil, err
	}

	var out *BurnResult
	err = u.uow.WithinPoolTx(ctx, in.PoolKey, func(r uow.Repos, p *domainPool.Record) error {
		if p.Authority != in.Caller {
			return domainPool.ErrUnauthorized
		}
		nav, err := attestedNav(ctx, r, p, in.Attestation)
		if err != nil {
			return err
		}

		acct, err := r.Receipts.GetAccountByKeyForUpdate(ctx, acctKey)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainReceipt.ErrNotFound
			}
			return err
		}
		if acct.Owner != in.Owner {
			return domainPool.ErrUnauthorized
		}
		if acct.Amount < in.Amount {
			return domainReceipt.ErrInsufficientFunds
		}

		redemption, err := domainReceipt.RedemptionValue(in.Amount, acct.NavAtMint, nav.NewNav)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := p.SubDeposits(in.Amount); err != nil {
			return domainReceipt.ErrInsufficientFunds
		}
		p.ApplyNav(nav.NewNav, nav.Epoch, now)

		if err := acct.SubAmount(in.Amount); err != nil {
			return err
		}
		if err := acct.AddClaimed(redemption); err != nil {
			return err
		}
		acct.LastClaimAt = now

		m, err := r.Receipts.GetMintByPoolKeyForUpdate(ctx, p.PoolKey)
		if err != nil {
			return err
		}
		if err := subSupply(m, in.Amount); err != nil {
			return err
		}
		m.NavPerToken = nav.NewNav
		m.LastNavUpdate = now

		if err := r.Pools.Save(ctx, p); err != nil {
			return err
		}
		if err := r.Receipts.SaveAccount(ctx, acct); err != nil {
			return err
		}
		if err := r.Receipts.SaveMint(ctx, m); err != nil {
			return err
		}
		out = &BurnResult{Account: toAccountDTO(acct), RedemptionValue: redemption}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("receipt tokens burned: pool=%s owner=%s amount=%d redemption=%d",
		in.PoolKey, in.Owner, in.Amount, out.RedemptionValue)
	return out, nil
}

func (u *Usecase) GetAccount(ctx context.Context, poolKey, owner string) (*AccountDTO, error) {
	acctKey, err := AccountKey(poolKey, owner)
	if err != nil {
		return nil, err
	}
	acct, err := u.repo.GetAccountByKey(ctx, acctKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainReceipt.ErrNotFound
		}
		return nil, err
	}
	d := toAccountDTO(acct)
	return &d, nil
}

// attestedNav gates mint/burn on a verified NavUpdate for this pool and
// rejects stale epochs, so NAV only ever comes from attested statements.
func attestedNav(ctx context.Context, r uow.Repos, p *domainPool.Record, data domainAtt.Data) (domainAtt.NavUpdatePayload, error) {
	if err := attestationUC.RequireVerified(ctx, r.Attestations, data, domainAtt.TypeNavUpdate); err != nil {
		return domainAtt.NavUpdatePayload{}, err
	}
	nav, ok := data.Payload.(domainAtt.NavUpdatePayload)
	if !ok {
		return domainAtt.NavUpdatePayload{}, domainAtt.ErrInvalid
	}
	if nav.PoolID != p.PoolKey {
		return domainAtt.NavUpdatePayload{}, fmt.Errorf("%w: attestation names pool %s", domainAtt.ErrInvalid, nav.PoolID)
	}
	if nav.Epoch < p.NavEpoch {
		return domainAtt.NavUpdatePayload{}, fmt.Errorf("%w: stale nav epoch %d < %d", domainAtt.ErrInvalid, nav.Epoch, p.NavEpoch)
	}
	return nav, nil
}

func loadOrNewAccount(ctx context.Context, r uow.Repos, acctKey, poolKey, owner string) (*domainReceipt.TokenAccount, bool, error) {
	acct, err := r.Receipts.GetAccountByKeyForUpdate(ctx, acctKey)
	if err == nil {
		return acct, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	return &domainReceipt.TokenAccount{
		AccountKey: acctKey,
		PoolKey:    poolKey,
		Owner:      owner,
	}, true, nil
}

func addSupply(m *domainReceipt.Mint, amount uint64) error {
	if amount > ^uint64(0)-m.TotalSupply {
		return domainReceipt.ErrInsufficientFunds
	}
	m.TotalSupply += amount
	return nil
}

func subSupply(m *domainReceipt.Mint, amount uint64) error {
	if amount > m.TotalSupply {
		return domainReceipt.ErrInsufficientFunds
	}
	m.TotalSupply -= amount
	return nil
}
