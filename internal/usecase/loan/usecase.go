package loan

import (
	"context"
	"errors"
	"fmt"
	"log"

	domainAtt "private-credit-pool/internal/domain/attestation"
	domainLoan "private-credit-pool/internal/domain/loan"
	domainPool "private-credit-pool/internal/domain/pool"
	"private-credit-pool/internal/domain/uow"
	attestationUC "private-credit-pool/internal/usecase/attestation"
	"private-credit-pool/pkg/id"

	"gorm.io/gorm"
)

type Usecase struct {
	repo domainLoan.Repository
	uow  uow.UnitOfWork
}

func NewUsecase(loans domainLoan.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repo: loans, uow: tx}
}

// CreateCommit validates the loan parameters against the owning pool's
// configuration and writes a pending commit. The pool's total_loans counter
// moves in the same transaction.
func (u *Usecase) CreateCommit(ctx context.Context, in CreateCommitInput) (*CommitDTO, error) {
	if in.LoanID == "" {
		in.LoanID = id.NewID64()
	}

	var dto *CommitDTO
	err := u.uow.WithinPoolTx(ctx, in.PoolKey, func(r uow.Repos, p *domainPool.Record) error {
		if p.Authority != in.Caller {
			return domainPool.ErrUnauthorized
		}
		if in.Amount < p.Config.MinLoanAmount || in.Amount > p.Config.MaxLoanAmount {
			return fmt.Errorf("%w: amount %d outside [%d, %d]",
				domainLoan.ErrInvalidCommit, in.Amount, p.Config.MinLoanAmount, p.Config.MaxLoanAmount)
		}
		if in.Duration > p.Config.MaxLoanDuration {
			return fmt.Errorf("%w: duration %d exceeds pool cap %d",
				domainLoan.ErrInvalidCommit, in.Duration, p.Config.MaxLoanDuration)
		}
		if in.Tranche > domainLoan.MaxTranche {
			return fmt.Errorf("%w: tranche %d exceeds %d", domainLoan.ErrInvalidCommit, in.Tranche, domainLoan.MaxTranche)
		}

		l := &domainLoan.Commit{
			LoanID:          in.LoanID,
			PoolKey:         p.PoolKey,
			Borrower:        in.Borrower,
			Lender:          in.Lender,
			CommitHash:      in.CommitHash,
			Status:          domainLoan.StatusPending,
			Amount:          in.Amount,
			InterestRateBps: in.InterestRateBps,
			Duration:        in.Duration,
			CollateralHash:  in.CollateralHash,
			Tranche:         in.Tranche,
			Maturity:        in.Maturity,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}

		p.IncTotalLoans()
		if err := r.Pools.Save(ctx, p); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("loan commit created: id=%s pool=%s amount=%d", dto.LoanID, dto.PoolKey, dto.Amount)
	return dto, nil
}

// transitionGates maps each attested target status to the attestation type
// that must vouch for it. Cancellation is absent: leaving pending needs only
// the authority's own signature.
var transitionGates = map[domainLoan.Status]domainAtt.Type{
	domainLoan.StatusApproved:   domainAtt.TypeLoanApproval,
	domainLoan.StatusActive:     domainAtt.TypeLoanDisbursement,
	domainLoan.StatusRepaid:     domainAtt.TypeLoanRepayment,
	domainLoan.StatusDefaulted:  domainAtt.TypeCovenantBreach,
	domainLoan.StatusLiquidated: domainAtt.TypeLiquidation,
}

// UpdateStatus moves a loan along the fixed transition graph. Every attested
// transition requires a verified attestation of the matching type whose
// payload names this loan.
func (u *Usecase) UpdateStatus(ctx context.Context, in UpdateStatusInput) (*CommitDTO, error) {
	var dto *CommitDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, in.LoanID)
		if err != nil {
			return domainLoan.ErrNotFound
		}
		if l.LoanID != in.LoanID {
			return domainLoan.ErrNotFound
		}

		p, err := r.Pools.GetByPoolKey(ctx, l.PoolKey)
		if err != nil {
			return domainPool.ErrNotFound
		}
		if p.Authority != in.Caller {
			return domainPool.ErrUnauthorized
		}

		if !domainLoan.CanTransition(l.Status, in.Target) {
			return fmt.Errorf("%w: %s -> %s", domainLoan.ErrInvalidTransition, l.Status, in.Target)
		}

		if gate, attested := transitionGates[in.Target]; attested {
			if in.Attestation == nil {
				return domainAtt.ErrVerificationFailed
			}
			if err := attestationUC.RequireVerified(ctx, r.Attestations, *in.Attestation, gate); err != nil {
				return err
			}
			if ref := payloadLoanID(in.Attestation.Payload); ref != l.LoanID {
				return fmt.Errorf("%w: attestation names loan %s", domainAtt.ErrInvalid, ref)
			}
		}

		from := l.Status
		l.Status = in.Target
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		log.Printf("loan status changed: id=%s %s -> %s", l.LoanID, from, in.Target)
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*CommitDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLoan.ErrNotFound
		}
		return nil, err
	}
	return toDTO(l), nil
}

// payloadLoanID pulls the loan reference out of a loan-scoped payload.
func payloadLoanID(p domainAtt.Payload) string {
	switch v := p.(type) {
	case domainAtt.LoanApprovalPayload:
		return v.LoanID
	case domainAtt.LoanDisbursementPayload:
		return v.LoanID
	case domainAtt.LoanRepaymentPayload:
		return v.LoanID
	case domainAtt.CovenantBreachPayload:
		return v.LoanID
	case domainAtt.LiquidationPayload:
		return v.LoanID
	default:
		return ""
	}
}
