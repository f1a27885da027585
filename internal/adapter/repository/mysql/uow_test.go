package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	attestationDomain "private-credit-pool/internal/domain/attestation"
	auditDomain "private-credit-pool/internal/domain/audit"
	loanDomain "private-credit-pool/internal/domain/loan"
	poolDomain "private-credit-pool/internal/domain/pool"
	receiptDomain "private-credit-pool/internal/domain/receipt"
	"private-credit-pool/internal/domain/uow"
	"private-credit-pool/pkg/id"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openUowTestDB migrates every table, so the UoW can orchestrate all repos.
func openUowTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&poolDomain.Record{},
		&loanDomain.Commit{},
		&attestationDomain.Record{},
		&receiptDomain.Mint{},
		&receiptDomain.TokenAccount{},
		&auditDomain.Request{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makePool(poolKey string) *poolDomain.Record {
	return &poolDomain.Record{
		PoolKey:        poolKey,
		Owner:          id.NewID64(),
		Authority:      id.NewID64(),
		ReceiptMint:    id.NewID64(),
		EscrowMultisig: id.NewID64(),
		NavCommitRoot:  id.NewID64(),
		TotalDeposits:  10_000_000,
		NavPerToken:    poolDomain.UnitNav,
		LastNavUpdate:  time.Now().UTC(),
		Config: poolDomain.Config{
			MaxLoanAmount:   50_000_000,
			MinLoanAmount:   100_000,
			MaxLoanDuration: 86_400 * 365,
			InterestRateBps: 900,
		},
	}
}

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := openUowTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	poolRepo := NewPoolRepository(db)
	loanRepo := NewLoanRepository(db)

	poolKey := id.NewID64()
	loanID := id.NewID64()

	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Pools.Create(ctx, makePool(poolKey)); err != nil {
			return err
		}
		return r.Loans.Create(ctx, makeCommit(loanID, poolKey))
	})
	if err != nil {
		t.Fatalf("WithinTx commit err: %v", err)
	}

	if _, err := poolRepo.GetByPoolKey(ctx, poolKey); err != nil {
		t.Fatalf("pool not visible after commit: %v", err)
	}
	if _, err := loanRepo.GetByLoanID(ctx, loanID); err != nil {
		t.Fatalf("loan not visible after commit: %v", err)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := openUowTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	poolRepo := NewPoolRepository(db)

	poolKey := id.NewID64()
	sentinel := errors.New("boom")

	_ = guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Pools.Create(ctx, makePool(poolKey)); err != nil {
			return err
		}
		return sentinel // force rollback
	})

	if _, err := poolRepo.GetByPoolKey(ctx, poolKey); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected pool not found after rollback, got %v", err)
	}
}

func TestGormUoW_WithinPoolTx_Commit(t *testing.T) {
	db := openUowTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	poolRepo := NewPoolRepository(db)
	loanRepo := NewLoanRepository(db)

	poolKey := id.NewID64()
	loanID := id.NewID64()

	if err := poolRepo.Create(ctx, makePool(poolKey)); err != nil {
		t.Fatalf("seed pool: %v", err)
	}

	// The locked pool record is handed to fn; mutations persist on commit.
	err := guow.WithinPoolTx(ctx, poolKey, func(r uow.Repos, p *poolDomain.Record) error {
		if p == nil || p.PoolKey != poolKey {
			t.Fatalf("unexpected pool passed to fn: %+v", p)
		}
		if err := p.AddDeposits(2_500_000); err != nil {
			return err
		}
		p.IncTotalLoans()
		if err := r.Pools.Save(ctx, p); err != nil {
			return err
		}
		return r.Loans.Create(ctx, makeCommit(loanID, poolKey))
	})
	if err != nil {
		t.Fatalf("WithinPoolTx commit err: %v", err)
	}

	got, err := poolRepo.GetByPoolKey(ctx, poolKey)
	if err != nil {
		t.Fatalf("GetByPoolKey post-commit: %v", err)
	}
	if got.TotalDeposits != 12_500_000 {
		t.Fatalf("total_deposits not updated, got=%d", got.TotalDeposits)
	}
	if got.TotalLoans != 1 {
		t.Fatalf("total_loans not updated, got=%d", got.TotalLoans)
	}
	if _, err := loanRepo.GetByLoanID(ctx, loanID); err != nil {
		t.Fatalf("loan not visible after commit: %v", err)
	}
}

func TestGormUoW_WithinPoolTx_Rollback(t *testing.T) {
	db := openUowTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	poolRepo := NewPoolRepository(db)

	poolKey := id.NewID64()
	if err := poolRepo.Create(ctx, makePool(poolKey)); err != nil {
		t.Fatalf("seed pool: %v", err)
	}

	sentinel := errors.New("stop")

	_ = guow.WithinPoolTx(ctx, poolKey, func(r uow.Repos, p *poolDomain.Record) error {
		if err := p.AddDeposits(1); err != nil {
			return err
		}
		if err := r.Pools.Save(ctx, p); err != nil {
			return err
		}
		return sentinel
	})

	got, err := poolRepo.GetByPoolKey(ctx, poolKey)
	if err != nil {
		t.Fatalf("GetByPoolKey post-rollback: %v", err)
	}
	if got.TotalDeposits != 10_000_000 {
		t.Fatalf("total_deposits changed after rollback, got=%d", got.TotalDeposits)
	}
}

func TestGormUoW_WithinPoolTx_PoolNotFound(t *testing.T) {
	db := openUowTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)

	err := guow.WithinPoolTx(ctx, id.NewID64(), func(uow.Repos, *poolDomain.Record) error {
		t.Fatalf("fn must not run for a missing pool")
		return nil
	})
	if !errors.Is(err, poolDomain.ErrNotFound) {
		t.Fatalf("expected pool.ErrNotFound, got %v", err)
	}
}
