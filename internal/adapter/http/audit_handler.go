package http

import (
	"net/http"

	"private-credit-pool/internal/usecase/audit"

	"github.com/labstack/echo/v4"
)

type AuditHandler struct{ uc *audit.Usecase }

func NewAuditHandler(uc *audit.Usecase) *AuditHandler { return &AuditHandler{uc: uc} }

type auditRequestReq struct {
	Requester      string `json:"requester"        validate:"required,hex64"`
	LoanID         string `json:"loan_id"          validate:"required,hex64"`
	Auditor        string `json:"auditor"          validate:"required,hex64"`
	LegalOrderHash string `json:"legal_order_hash" validate:"required,hex64"`
}

func (h *AuditHandler) RequestAccess(c echo.Context) error {
	var req auditRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return failValidation(c, err)
	}
	dto, err := h.uc.Request(c.Request().Context(), audit.RequestInput{
		Requester:      req.Requester,
		LoanID:         req.LoanID,
		Auditor:        req.Auditor,
		LegalOrderHash: req.LegalOrderHash,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type auditGrantReq struct {
	PoolKey     string         `json:"pool_key"    validate:"required,hex64"`
	Caller      string         `json:"caller"      validate:"required,hex64"`
	LoanID      string         `json:"loan_id"     validate:"required,hex64"`
	Auditor     string         `json:"auditor"     validate:"required,hex64"`
	Attestation attestationReq `json:"attestation" validate:"required"`
}

func (h *AuditHandler) GrantAccess(c echo.Context) error {
	var req auditGrantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return failValidation(c, err)
	}
	data, err := req.Attestation.toData()
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	}
	dto, err := h.uc.Grant(c.Request().Context(), audit.GrantInput{
		PoolKey:     req.PoolKey,
		Caller:      req.Caller,
		LoanID:      req.LoanID,
		Auditor:     req.Auditor,
		Attestation: data,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AuditHandler) GetRequest(c echo.Context) error {
	loanID := c.Param("loan_id")
	auditor := c.Param("auditor")
	if !reHex64.MatchString(loanID) || !reHex64.MatchString(auditor) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid path params"})
	}
	dto, err := h.uc.Get(c.Request().Context(), loanID, auditor)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
