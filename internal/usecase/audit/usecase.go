package audit

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	domainAtt "private-credit-pool/internal/domain/attestation"
	domainAudit "private-credit-pool/internal/domain/audit"
	domainLoan "private-credit-pool/internal/domain/loan"
	domainPool "private-credit-pool/internal/domain/pool"
	"private-credit-pool/internal/domain/uow"
	attestationUC "private-credit-pool/internal/usecase/attestation"
	"private-credit-pool/pkg/seed"

	"gorm.io/gorm"
)

type Usecase struct {
	repo domainAudit.Repository
	uow  uow.UnitOfWork
}

func NewUsecase(audits domainAudit.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repo: audits, uow: tx}
}

// RequestKey derives the (loan, auditor) disclosure-request address.
func RequestKey(loanID, auditor string) (string, []byte, []byte, error) {
	loanRaw, err := hex.DecodeString(loanID)
	if err != nil || len(loanRaw) != 32 {
		return "", nil, nil, fmt.Errorf("invalid loan id")
	}
	auditorRaw, err := hex.DecodeString(auditor)
	if err != nil || len(auditorRaw) != 32 {
		return "", nil, nil, fmt.Errorf("invalid auditor address")
	}
	return seed.Derive("audit_request", loanRaw, auditorRaw), loanRaw, auditorRaw, nil
}

// Request records a pending disclosure request. The legal-order hash must be
// real: an all-zero hash means no legal order was supplied.
func (u *Usecase) Request(ctx context.Context, in RequestInput) (*RequestDTO, error) {
	orderRaw, err := hex.DecodeString(in.LegalOrderHash)
	if err != nil || len(orderRaw) != 32 {
		return nil, domainAudit.ErrLegalOrderFailed
	}
	if allZero(orderRaw) {
		return nil, domainAudit.ErrLegalOrderFailed
	}

	key, loanRaw, auditorRaw, err := RequestKey(in.LoanID, in.Auditor)
	if err != nil {
		return nil, err
	}
	permission := seed.Keccak256(loanRaw, auditorRaw)

	req := &domainAudit.Request{
		RequestKey:     key,
		Requester:      in.Requester,
		LoanID:         in.LoanID,
		Auditor:        in.Auditor,
		PermissionHash: hex.EncodeToString(permission[:]),
		LegalOrderHash: in.LegalOrderHash,
		Status:         domainAudit.StatusPending,
	}
	if err := u.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	log.Printf("audit requested: loan=%s auditor=%s", in.LoanID, in.Auditor)
	return toDTO(req), nil
}

// Grant approves a pending request on the pool authority's say-so, gated by a
// verified AuditGrant attestation for the same loan and auditor. The actual
// re-encryption of loan data for the auditor happens downstream.
func (u *Usecase) Grant(ctx context.Context, in GrantInput) (*RequestDTO, error) {
	key, _, _, err := RequestKey(in.LoanID, in.Auditor)
	if err != nil {
		return nil, err
	}

	var dto *RequestDTO
	err = u.uow.WithinPoolTx(ctx, in.PoolKey, func(r uow.Repos, p *domainPool.Record) error {
		if p.Authority != in.Caller {
			return domainPool.ErrUnauthorized
		}

		req, err := r.Audits.GetByRequestKeyForUpdate(ctx, key)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainAudit.ErrNotFound
			}
			return err
		}
		if req.Status != domainAudit.StatusPending {
			return domainAudit.ErrRequestDenied
		}

		if err := attestationUC.RequireVerified(ctx, r.Attestations, in.Attestation, domainAtt.TypeAuditGrant); err != nil {
			return err
		}
		grant, ok := in.Attestation.Payload.(domainAtt.AuditGrantPayload)
		if !ok {
			return domainAtt.ErrInvalid
		}
		if grant.LoanID != req.LoanID {
			return fmt.Errorf("%w: attestation names loan %s", domainLoan.ErrNotFound, grant.LoanID)
		}
		if grant.Auditor != req.Auditor {
			return domainAudit.ErrInvalidAuditor
		}

		now := time.Now().UTC()
		req.Status = domainAudit.StatusApproved
		req.GrantedAt = &now
		if err := r.Audits.Save(ctx, req); err != nil {
			return err
		}
		dto = toDTO(req)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("audit access granted: loan=%s auditor=%s", in.LoanID, in.Auditor)
	return dto, nil
}

func (u *Usecase) Get(ctx context.Context, loanID, auditor string) (*RequestDTO, error) {
	key, _, _, err := RequestKey(loanID, auditor)
	if err != nil {
		return nil, err
	}
	req, err := u.repo.GetByRequestKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainAudit.ErrNotFound
		}
		return nil, err
	}
	return toDTO(req), nil
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
