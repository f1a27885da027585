package loan

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domainAtt "private-credit-pool/internal/domain/attestation"
	domainLoan "private-credit-pool/internal/domain/loan"
	domainPool "private-credit-pool/internal/domain/pool"
	"private-credit-pool/internal/domain/uow"
	"private-credit-pool/internal/testutil/attestationmock"
	"private-credit-pool/internal/testutil/loanmock"
	"private-credit-pool/internal/testutil/poolmock"
	"private-credit-pool/internal/testutil/uowmock"

	"gorm.io/gorm"
)

const (
	testPoolKey   = "1111111111111111111111111111111111111111111111111111111111111111"
	testAuthority = "2222222222222222222222222222222222222222222222222222222222222222"
	testBorrower  = "3333333333333333333333333333333333333333333333333333333333333333"
	testLender    = "4444444444444444444444444444444444444444444444444444444444444444"
	testLoanID    = "5555555555555555555555555555555555555555555555555555555555555555"
)

func testPool() *domainPool.Record {
	return &domainPool.Record{
		PoolKey:   testPoolKey,
		Authority: testAuthority,
		Config: domainPool.Config{
			MaxLoanAmount:   1_000,
			MinLoanAmount:   100,
			MaxLoanDuration: 86_400 * 365,
			InterestRateBps: 900,
		},
	}
}

func createInput(amount uint64) CreateCommitInput {
	return CreateCommitInput{
		PoolKey:         testPoolKey,
		Caller:          testAuthority,
		LoanID:          testLoanID,
		Borrower:        testBorrower,
		Lender:          testLender,
		CommitHash:      strings.Repeat("6", 64),
		Amount:          amount,
		InterestRateBps: 900,
		Duration:        86_400 * 90,
		CollateralHash:  strings.Repeat("7", 64),
		Tranche:         1,
		Maturity:        time.Now().Unix() + 86_400*90,
	}
}

// verifiedAttestation builds an attested statement plus a repo that serves
// its record as already verified.
func verifiedAttestation(t *testing.T, p domainAtt.Payload) (domainAtt.Data, *attestationmock.Repo) {
	t.Helper()
	data := domainAtt.NewData(p, []string{strings.Repeat("a", 128)}, []string{strings.Repeat("b", 64)}, 1, 1, time.Now().Unix())
	hash, err := data.Hash()
	if err != nil {
		t.Fatalf("hash attestation: %v", err)
	}
	return data, attestationmock.Verified(&domainAtt.Record{AttestationHash: hash, Threshold: 1})
}

func TestCreateCommit_Happy(t *testing.T) {
	ctx := context.Background()
	p := testPool()

	var stored *domainLoan.Commit
	loans := &loanmock.Repo{
		CreateFn: func(_ context.Context, l *domainLoan.Commit) error {
			stored = l
			return nil
		},
	}
	repos := uow.Repos{Pools: &poolmock.Repo{}, Loans: loans}
	uc := NewUsecase(loans, uowmock.Passthrough(repos, p))

	dto, err := uc.CreateCommit(ctx, createInput(500))
	if err != nil {
		t.Fatalf("CreateCommit: %v", err)
	}
	if stored == nil || stored.Status != domainLoan.StatusPending {
		t.Fatalf("commit not stored as pending: %+v", stored)
	}
	if dto.LoanID != testLoanID || dto.Amount != 500 {
		t.Fatalf("unexpected dto: %+v", dto)
	}
	if p.TotalLoans != 1 {
		t.Fatalf("total_loans not incremented, got %d", p.TotalLoans)
	}
}

func TestCreateCommit_GeneratesLoanID(t *testing.T) {
	ctx := context.Background()
	p := testPool()
	loans := &loanmock.Repo{}
	repos := uow.Repos{Pools: &poolmock.Repo{}, Loans: loans}
	uc := NewUsecase(loans, uowmock.Passthrough(repos, p))

	in := createInput(500)
	in.LoanID = ""
	dto, err := uc.CreateCommit(ctx, in)
	if err != nil {
		t.Fatalf("CreateCommit: %v", err)
	}
	if len(dto.LoanID) != 64 {
		t.Fatalf("expected generated 64-char loan id, got %q", dto.LoanID)
	}
}

func TestCreateCommit_Unauthorized(t *testing.T) {
	ctx := context.Background()
	p := testPool()
	loans := &loanmock.Repo{
		CreateFn: func(context.Context, *domainLoan.Commit) error {
			t.Fatalf("commit must not be stored for a non-authority caller")
			return nil
		},
	}
	repos := uow.Repos{Pools: &poolmock.Repo{}, Loans: loans}
	uc := NewUsecase(loans, uowmock.Passthrough(repos, p))

	in := createInput(500)
	in.Caller = testBorrower
	if _, err := uc.CreateCommit(ctx, in); !errors.Is(err, domainPool.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
	if p.TotalLoans != 0 {
		t.Fatalf("total_loans must not move on failure, got %d", p.TotalLoans)
	}
}

func TestCreateCommit_AmountBounds(t *testing.T) {
	ctx := context.Background()

	// pool range is [100, 1000]
	cases := []struct {
		amount uint64
		ok     bool
	}{
		{50, false},
		{99, false},
		{100, true},
		{500, true},
		{1_000, true},
		{1_001, false},
	}
	for _, tc := range cases {
		p := testPool()
		loans := &loanmock.Repo{}
		repos := uow.Repos{Pools: &poolmock.Repo{}, Loans: loans}
		uc := NewUsecase(loans, uowmock.Passthrough(repos, p))

		_, err := uc.CreateCommit(ctx, createInput(tc.amount))
		if tc.ok && err != nil {
			t.Errorf("amount %d: unexpected err %v", tc.amount, err)
		}
		if !tc.ok {
			if !errors.Is(err, domainLoan.ErrInvalidCommit) {
				t.Errorf("amount %d: want ErrInvalidCommit, got %v", tc.amount, err)
			}
			if p.TotalLoans != 0 {
				t.Errorf("amount %d: total_loans moved on failure", tc.amount)
			}
		}
	}
}

func TestCreateCommit_DurationAndTrancheCaps(t *testing.T) {
	ctx := context.Background()
	p := testPool()
	loans := &loanmock.Repo{}
	repos := uow.Repos{Pools: &poolmock.Repo{}, Loans: loans}
	uc := NewUsecase(loans, uowmock.Passthrough(repos, p))

	in := createInput(500)
	in.Duration = p.Config.MaxLoanDuration + 1
	if _, err := uc.CreateCommit(ctx, in); !errors.Is(err, domainLoan.ErrInvalidCommit) {
		t.Fatalf("duration over cap: want ErrInvalidCommit, got %v", err)
	}

	in = createInput(500)
	in.Tranche = domainLoan.MaxTranche + 1
	if _, err := uc.CreateCommit(ctx, in); !errors.Is(err, domainLoan.ErrInvalidCommit) {
		t.Fatalf("tranche over cap: want ErrInvalidCommit, got %v", err)
	}
}

// statusUpdateFixture wires a loan in the given status plus its pool into a
// passthrough transaction.
func statusUpdateFixture(status domainLoan.Status, atts *attestationmock.Repo) (*domainLoan.Commit, *Usecase) {
	l := &domainLoan.Commit{
		LoanID:  testLoanID,
		PoolKey: testPoolKey,
		Status:  status,
		Amount:  500,
	}
	p := testPool()
	loans := &loanmock.Repo{
		GetByLoanIDForUpdateFn: func(_ context.Context, loanID string) (*domainLoan.Commit, error) {
			if loanID != l.LoanID {
				return nil, gorm.ErrRecordNotFound
			}
			return l, nil
		},
	}
	pools := &poolmock.Repo{
		GetByPoolKeyFn: func(_ context.Context, poolKey string) (*domainPool.Record, error) {
			if poolKey != p.PoolKey {
				return nil, gorm.ErrRecordNotFound
			}
			return p, nil
		},
	}
	if atts == nil {
		atts = &attestationmock.Repo{}
	}
	repos := uow.Repos{Pools: pools, Loans: loans, Attestations: atts}
	return l, NewUsecase(loans, uowmock.Passthrough(repos, p))
}

func TestUpdateStatus_ApprovedNeedsLoanApproval(t *testing.T) {
	ctx := context.Background()
	data, atts := verifiedAttestation(t, domainAtt.LoanApprovalPayload{
		LoanID:   testLoanID,
		Borrower: testBorrower,
		Amount:   500,
	})
	l, uc := statusUpdateFixture(domainLoan.StatusPending, atts)

	dto, err := uc.UpdateStatus(ctx, UpdateStatusInput{
		LoanID:      testLoanID,
		Caller:      testAuthority,
		Target:      domainLoan.StatusApproved,
		Attestation: &data,
	})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if l.Status != domainLoan.StatusApproved || dto.Status != string(domainLoan.StatusApproved) {
		t.Fatalf("loan not approved: stored=%s dto=%s", l.Status, dto.Status)
	}
}

func TestUpdateStatus_CancelledNeedsNoAttestation(t *testing.T) {
	ctx := context.Background()
	l, uc := statusUpdateFixture(domainLoan.StatusPending, nil)

	if _, err := uc.UpdateStatus(ctx, UpdateStatusInput{
		LoanID: testLoanID,
		Caller: testAuthority,
		Target: domainLoan.StatusCancelled,
	}); err != nil {
		t.Fatalf("UpdateStatus cancel: %v", err)
	}
	if l.Status != domainLoan.StatusCancelled {
		t.Fatalf("loan not cancelled: %s", l.Status)
	}
}

func TestUpdateStatus_GatedTransitionWithoutAttestation(t *testing.T) {
	ctx := context.Background()
	l, uc := statusUpdateFixture(domainLoan.StatusPending, nil)

	_, err := uc.UpdateStatus(ctx, UpdateStatusInput{
		LoanID: testLoanID,
		Caller: testAuthority,
		Target: domainLoan.StatusApproved,
	})
	if !errors.Is(err, domainAtt.ErrVerificationFailed) {
		t.Fatalf("want ErrVerificationFailed, got %v", err)
	}
	if l.Status != domainLoan.StatusPending {
		t.Fatalf("stored status must not move on failure, got %s", l.Status)
	}
}

func TestUpdateStatus_UnverifiedAttestationRejected(t *testing.T) {
	ctx := context.Background()
	data := domainAtt.NewData(domainAtt.LoanApprovalPayload{
		LoanID: testLoanID, Borrower: testBorrower, Amount: 500,
	}, []string{strings.Repeat("a", 128)}, []string{strings.Repeat("b", 64)}, 1, 1, time.Now().Unix())

	// record exists but is not verified
	hash, err := data.Hash()
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	atts := &attestationmock.Repo{
		GetByHashFn: func(_ context.Context, h string) (*domainAtt.Record, error) {
			if h == hash {
				return &domainAtt.Record{AttestationHash: hash, Verified: false}, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
	l, uc := statusUpdateFixture(domainLoan.StatusPending, atts)

	_, err = uc.UpdateStatus(ctx, UpdateStatusInput{
		LoanID:      testLoanID,
		Caller:      testAuthority,
		Target:      domainLoan.StatusApproved,
		Attestation: &data,
	})
	if !errors.Is(err, domainAtt.ErrVerificationFailed) {
		t.Fatalf("want ErrVerificationFailed, got %v", err)
	}
	if l.Status != domainLoan.StatusPending {
		t.Fatalf("stored status must not move, got %s", l.Status)
	}
}

func TestUpdateStatus_AttestationNamesOtherLoan(t *testing.T) {
	ctx := context.Background()
	otherLoan := strings.Repeat("9", 64)
	data, atts := verifiedAttestation(t, domainAtt.LoanApprovalPayload{
		LoanID:   otherLoan,
		Borrower: testBorrower,
		Amount:   500,
	})
	l, uc := statusUpdateFixture(domainLoan.StatusPending, atts)

	_, err := uc.UpdateStatus(ctx, UpdateStatusInput{
		LoanID:      testLoanID,
		Caller:      testAuthority,
		Target:      domainLoan.StatusApproved,
		Attestation: &data,
	})
	if !errors.Is(err, domainAtt.ErrInvalid) {
		t.Fatalf("want ErrInvalid, got %v", err)
	}
	if l.Status != domainLoan.StatusPending {
		t.Fatalf("stored status must not move, got %s", l.Status)
	}
}

func TestUpdateStatus_IllegalTransitionMatrix(t *testing.T) {
	ctx := context.Background()
	statuses := []domainLoan.Status{
		domainLoan.StatusPending, domainLoan.StatusApproved, domainLoan.StatusActive,
		domainLoan.StatusRepaid, domainLoan.StatusDefaulted, domainLoan.StatusLiquidated,
		domainLoan.StatusCancelled,
	}
	gatePayload := func(target domainLoan.Status) domainAtt.Payload {
		switch target {
		case domainLoan.StatusApproved:
			return domainAtt.LoanApprovalPayload{LoanID: testLoanID, Borrower: testBorrower, Amount: 500}
		case domainLoan.StatusActive:
			return domainAtt.LoanDisbursementPayload{LoanID: testLoanID, Amount: 500, Beneficiary: testBorrower}
		case domainLoan.StatusRepaid:
			return domainAtt.LoanRepaymentPayload{LoanID: testLoanID, Amount: 500}
		case domainLoan.StatusDefaulted:
			return domainAtt.CovenantBreachPayload{LoanID: testLoanID, BreachType: "ltv", Severity: 2}
		case domainLoan.StatusLiquidated:
			return domainAtt.LiquidationPayload{LoanID: testLoanID, CollateralAmount: 700, RecoveryAmount: 400}
		default:
			return nil
		}
	}

	for _, from := range statuses {
		for _, to := range statuses {
			if from == to || domainLoan.CanTransition(from, to) {
				continue
			}

			var data *domainAtt.Data
			var atts *attestationmock.Repo
			if p := gatePayload(to); p != nil {
				d, a := verifiedAttestation(t, p)
				data, atts = &d, a
			}
			l, uc := statusUpdateFixture(from, atts)

			_, err := uc.UpdateStatus(ctx, UpdateStatusInput{
				LoanID:      testLoanID,
				Caller:      testAuthority,
				Target:      to,
				Attestation: data,
			})
			if !errors.Is(err, domainLoan.ErrInvalidTransition) {
				t.Errorf("%s -> %s: want ErrInvalidTransition, got %v", from, to, err)
			}
			if l.Status != from {
				t.Errorf("%s -> %s: stored status moved to %s on failure", from, to, l.Status)
			}
		}
	}
}

func TestUpdateStatus_FullLifecycle(t *testing.T) {
	ctx := context.Background()

	// pending -> approved -> active -> defaulted -> liquidated, each gated by
	// a verified attestation of the matching type
	steps := []struct {
		target  domainLoan.Status
		payload domainAtt.Payload
	}{
		{domainLoan.StatusApproved, domainAtt.LoanApprovalPayload{LoanID: testLoanID, Borrower: testBorrower, Amount: 500}},
		{domainLoan.StatusActive, domainAtt.LoanDisbursementPayload{LoanID: testLoanID, Amount: 500, Beneficiary: testBorrower}},
		{domainLoan.StatusDefaulted, domainAtt.CovenantBreachPayload{LoanID: testLoanID, BreachType: "dscr", Severity: 3}},
		{domainLoan.StatusLiquidated, domainAtt.LiquidationPayload{LoanID: testLoanID, CollateralAmount: 700, RecoveryAmount: 400}},
	}

	status := domainLoan.StatusPending
	for _, step := range steps {
		data, atts := verifiedAttestation(t, step.payload)
		l, uc := statusUpdateFixture(status, atts)

		if _, err := uc.UpdateStatus(ctx, UpdateStatusInput{
			LoanID:      testLoanID,
			Caller:      testAuthority,
			Target:      step.target,
			Attestation: &data,
		}); err != nil {
			t.Fatalf("%s -> %s: %v", status, step.target, err)
		}
		if l.Status != step.target {
			t.Fatalf("%s -> %s: stored status is %s", status, step.target, l.Status)
		}
		status = step.target
	}
}

func TestUpdateStatus_LoanNotFound(t *testing.T) {
	ctx := context.Background()
	_, uc := statusUpdateFixture(domainLoan.StatusPending, nil)

	_, err := uc.UpdateStatus(ctx, UpdateStatusInput{
		LoanID: strings.Repeat("f", 64),
		Caller: testAuthority,
		Target: domainLoan.StatusCancelled,
	})
	if !errors.Is(err, domainLoan.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestUpdateStatus_UnauthorizedCaller(t *testing.T) {
	ctx := context.Background()
	l, uc := statusUpdateFixture(domainLoan.StatusPending, nil)

	_, err := uc.UpdateStatus(ctx, UpdateStatusInput{
		LoanID: testLoanID,
		Caller: testBorrower,
		Target: domainLoan.StatusCancelled,
	})
	if !errors.Is(err, domainPool.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
	if l.Status != domainLoan.StatusPending {
		t.Fatalf("stored status must not move, got %s", l.Status)
	}
}

func TestGet_MapsRecordNotFound(t *testing.T) {
	ctx := context.Background()
	loans := &loanmock.Repo{}
	uc := NewUsecase(loans, uowmock.New())

	if _, err := uc.Get(ctx, testLoanID); !errors.Is(err, domainLoan.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
