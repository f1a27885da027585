package http

import (
	"net/http"

	loanDomain "private-credit-pool/internal/domain/loan"
	"private-credit-pool/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type createLoanReq struct {
	PoolKey         string `json:"pool_key"          validate:"required,hex64"`
	Caller          string `json:"caller"            validate:"required,hex64"`
	LoanID          string `json:"loan_id"           validate:"omitempty,hex64"`
	Borrower        string `json:"borrower"          validate:"required,hex64"`
	Lender          string `json:"lender"            validate:"required,hex64"`
	CommitHash      string `json:"commit_hash"       validate:"required,hex64"`
	Amount          uint64 `json:"amount"            validate:"required"`
	InterestRateBps uint16 `json:"interest_rate_bps" validate:"lte=10000"`
	Duration        uint64 `json:"duration"          validate:"required"`
	CollateralHash  string `json:"collateral_hash"   validate:"required,hex64"`
	Tranche         uint8  `json:"tranche"           validate:"lte=3"`
	Maturity        int64  `json:"maturity"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return failValidation(c, err)
	}
	dto, err := h.uc.CreateCommit(c.Request().Context(), loan.CreateCommitInput{
		PoolKey:         req.PoolKey,
		Caller:          req.Caller,
		LoanID:          req.LoanID,
		Borrower:        req.Borrower,
		Lender:          req.Lender,
		CommitHash:      req.CommitHash,
		Amount:          req.Amount,
		InterestRateBps: req.InterestRateBps,
		Duration:        req.Duration,
		CollateralHash:  req.CollateralHash,
		Tranche:         req.Tranche,
		Maturity:        req.Maturity,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type updateStatusReq struct {
	Caller      string          `json:"caller" validate:"required,hex64"`
	Target      string          `json:"target" validate:"required"`
	Attestation *attestationReq `json:"attestation"`
}

func (h *LoanHandler) UpdateStatus(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !reHex64.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id path param"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return failValidation(c, err)
	}

	in := loan.UpdateStatusInput{
		LoanID: loanID,
		Caller: req.Caller,
		Target: loanDomain.Status(req.Target),
	}
	if req.Attestation != nil {
		data, err := req.Attestation.toData()
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		}
		in.Attestation = &data
	}

	dto, err := h.uc.UpdateStatus(c.Request().Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !reHex64.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id path param"})
	}
	dto, err := h.uc.Get(c.Request().Context(), loanID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
