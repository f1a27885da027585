package pool

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
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
	repo domainPool.Repository
	uow  uow.UnitOfWork
}

func NewUsecase(pools domainPool.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repo: pools, uow: tx}
}

type InitializeInput struct {
	Owner          string
	Authority      string
	EscrowMultisig string
	Config         domainPool.Config
	TransferGated  bool
	KycRequired    bool
}

// Initialize creates the pool record with zeroed aggregates plus its receipt
// mint, in one transaction. The pool's key derives from the owner address.
func (u *Usecase) Initialize(ctx context.Context, in InitializeInput) (*domainPool.Record, error) {
	ownerRaw, err := hex.DecodeString(in.Owner)
	if err != nil || len(ownerRaw) != 32 {
		return nil, fmt.Errorf("invalid owner address")
	}
	if err := in.Config.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	poolKey := seed.Derive("pool", ownerRaw)
	mintKey := seed.Derive("receipt_mint", ownerRaw)
	p := &domainPool.Record{
		PoolKey:        poolKey,
		Owner:          in.Owner,
		Authority:      in.Authority,
		ReceiptMint:    mintKey,
		EscrowMultisig: in.EscrowMultisig,
		NavCommitRoot:  strings.Repeat("0", 64),
		ReservedFunds:  0,
		TotalDeposits:  0,
		TotalLoans:     0,
		NavPerToken:    domainPool.UnitNav,
		NavEpoch:       0,
		Config:         in.Config,
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Pools.Create(ctx, p); err != nil {
			return err
		}
		m := &domainReceipt.Mint{
			MintKey:       mintKey,
			PoolKey:       poolKey,
			TotalSupply:   0,
			NavPerToken:   domainPool.UnitNav,
			LastNavUpdate: now,
			TransferGated: in.TransferGated,
			KycRequired:   in.KycRequired,
		}
		return r.Receipts.CreateMint(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("pool initialized: key=%s owner=%s", poolKey, in.Owner)
	return p, nil
}

// UpdateConfig replaces the pool config after re-running the invariants.
// While the emergency pause is set nothing may change, even an update that
// would clear the pause: lifting it is a separate administrative path, so one
// call can never both drop protections and move risk parameters.
func (u *Usecase) UpdateConfig(ctx context.Context, poolKey, caller string, newConfig domainPool.Config) (*domainPool.Record, error) {
	var out *domainPool.Record
	err := u.uow.WithinPoolTx(ctx, poolKey, func(r uow.Repos, p *domainPool.Record) error {
		if p.Authority != caller {
			return domainPool.ErrUnauthorized
		}
		if p.Config.EmergencyPause {
			return domainPool.ErrEmergencyPause
		}
		if err := newConfig.Validate(); err != nil {
			return err
		}
		p.Config = newConfig
		if err := r.Pools.Save(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("pool config updated: key=%s", poolKey)
	return out, nil
}

// TriggerEmergencyPause sets the pause flag on the strength of a verified
// EmergencyPause attestation. Lifting the pause is out of scope.
func (u *Usecase) TriggerEmergencyPause(ctx context.Context, poolKey string, data domainAtt.Data) (*domainPool.Record, error) {
	var out *domainPool.Record
	err := u.uow.WithinPoolTx(ctx, poolKey, func(r uow.Repos, p *domainPool.Record) error {
		if err := attestationUC.RequireVerified(ctx, r.Attestations, data, domainAtt.TypeEmergencyPause); err != nil {
			return err
		}
		p.Config.EmergencyPause = true
		if err := r.Pools.Save(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	payload, _ := data.Payload.(domainAtt.EmergencyPausePayload)
	log.Printf("emergency pause triggered: pool=%s reason=%q", poolKey, payload.Reason)
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, poolKey string) (*domainPool.Record, error) {
	p, err := u.repo.GetByPoolKey(ctx, poolKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainPool.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}
