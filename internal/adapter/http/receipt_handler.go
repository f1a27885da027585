package http

import (
	"net/http"

	"private-credit-pool/internal/usecase/receipt"

	"github.com/labstack/echo/v4"
)

type ReceiptHandler struct{ uc *receipt.Usecase }

func NewReceiptHandler(uc *receipt.Usecase) *ReceiptHandler { return &ReceiptHandler{uc: uc} }

type mintReq struct {
	Caller      string         `json:"caller"      validate:"required,hex64"`
	Recipient   string         `json:"recipient"   validate:"required,hex64"`
	Amount      uint64         `json:"amount"      validate:"required"`
	Attestation attestationReq `json:"attestation" validate:"required"`
}

func (h *ReceiptHandler) Mint(c echo.Context) error {
	poolKey := c.Param("pool_key")
	if !reHex64.MatchString(poolKey) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid pool_key path param"})
	}
	var req mintReq
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
	dto, err := h.uc.Mint(c.Request().Context(), receipt.MintInput{
		PoolKey:     poolKey,
		Caller:      req.Caller,
		Recipient:   req.Recipient,
		Amount:      req.Amount,
		Attestation: data,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type burnReq struct {
	Caller      string         `json:"caller"      validate:"required,hex64"`
	Owner       string         `json:"owner"       validate:"required,hex64"`
	Amount      uint64         `json:"amount"      validate:"required"`
	Attestation attestationReq `json:"attestation" validate:"required"`
}

func (h *ReceiptHandler) Burn(c echo.Context) error {
	poolKey := c.Param("pool_key")
	if !reHex64.MatchString(poolKey) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid pool_key path param"})
	}
	var req burnReq
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
	res, err := h.uc.Burn(c.Request().Context(), receipt.BurnInput{
		PoolKey:     poolKey,
		Caller:      req.Caller,
		Owner:       req.Owner,
		Amount:      req.Amount,
		Attestation: data,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ReceiptHandler) GetAccount(c echo.Context) error {
	poolKey := c.Param("pool_key")
	owner := c.Param("owner")
	if !reHex64.MatchString(poolKey) || !reHex64.MatchString(owner) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid path params"})
	}
	dto, err := h.uc.GetAccount(c.Request().Context(), poolKey, owner)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
