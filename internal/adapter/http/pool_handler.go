package http

import (
	"net/http"

	poolDomain "private-credit-pool/internal/domain/pool"
	"private-credit-pool/internal/usecase/pool"

	"github.com/labstack/echo/v4"
)

type PoolHandler struct{ uc *pool.Usecase }

func NewPoolHandler(uc *pool.Usecase) *PoolHandler { return &PoolHandler{uc: uc} }

type createPoolReq struct {
	Owner          string            `json:"owner"           validate:"required,hex64"`
	Authority      string            `json:"authority"       validate:"required,hex64"`
	EscrowMultisig string            `json:"escrow_multisig" validate:"required,hex64"`
	Config         poolDomain.Config `json:"config"`
	TransferGated  bool              `json:"transfer_gated"`
	KycRequired    bool              `json:"kyc_required"`
}

func (h *PoolHandler) CreatePool(c echo.Context) error {
	var req createPoolReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return failValidation(c, err)
	}
	rec, err := h.uc.Initialize(c.Request().Context(), pool.InitializeInput{
		Owner:          req.Owner,
		Authority:      req.Authority,
		EscrowMultisig: req.EscrowMultisig,
		Config:         req.Config,
		TransferGated:  req.TransferGated,
		KycRequired:    req.KycRequired,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

type updateConfigReq struct {
	Caller string            `json:"caller" validate:"required,hex64"`
	Config poolDomain.Config `json:"config"`
}

func (h *PoolHandler) UpdateConfig(c echo.Context) error {
	poolKey := c.Param("pool_key")
	if !reHex64.MatchString(poolKey) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid pool_key path param"})
	}
	var req updateConfigReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return failValidation(c, err)
	}
	rec, err := h.uc.UpdateConfig(c.Request().Context(), poolKey, req.Caller, req.Config)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

type triggerPauseReq struct {
	Attestation attestationReq `json:"attestation" validate:"required"`
}

func (h *PoolHandler) TriggerPause(c echo.Context) error {
	poolKey := c.Param("pool_key")
	if !reHex64.MatchString(poolKey) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid pool_key path param"})
	}
	var req triggerPauseReq
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
	rec, err := h.uc.TriggerEmergencyPause(c.Request().Context(), poolKey, data)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *PoolHandler) GetPool(c echo.Context) error {
	poolKey := c.Param("pool_key")
	if !reHex64.MatchString(poolKey) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid pool_key path param"})
	}
	rec, err := h.uc.Get(c.Request().Context(), poolKey)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}
