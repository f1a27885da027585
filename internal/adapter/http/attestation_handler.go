package http

import (
	"encoding/json"
	"net/http"

	attestationDomain "private-credit-pool/internal/domain/attestation"
	"private-credit-pool/internal/usecase/attestation"

	"github.com/labstack/echo/v4"
)

type AttestationHandler struct{ uc *attestation.Usecase }

func NewAttestationHandler(uc *attestation.Usecase) *AttestationHandler {
	return &AttestationHandler{uc: uc}
}

// attestationReq is the wire form of an attested statement. The payload is
// kept raw until the type tag selects the variant to decode into.
type attestationReq struct {
	Type        string          `json:"type"         validate:"required"`
	Payload     json.RawMessage `json:"payload"      validate:"required"`
	Signatures  []string        `json:"signatures"   validate:"required,min=1,dive,hex128"`
	SignerAddrs []string        `json:"signer_addrs" validate:"required,min=1,dive,hex64"`
	Threshold   uint8           `json:"threshold"    validate:"required"`
	Nonce       uint64          `json:"nonce"`
	Timestamp   int64           `json:"timestamp"    validate:"required"`
}

func (r attestationReq) toData() (attestationDomain.Data, error) {
	p, err := attestationDomain.DecodePayload(attestationDomain.Type(r.Type), r.Payload)
	if err != nil {
		return attestationDomain.Data{}, err
	}
	return attestationDomain.NewData(p, r.Signatures, r.SignerAddrs, r.Threshold, r.Nonce, r.Timestamp), nil
}

func (h *AttestationHandler) Submit(c echo.Context) error {
	var req attestationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return failValidation(c, err)
	}
	data, err := req.toData()
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	}
	dto, err := h.uc.Submit(c.Request().Context(), data)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *AttestationHandler) Verify(c echo.Context) error {
	hash := c.Param("attestation_hash")
	if !reHex64.MatchString(hash) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid attestation_hash path param"})
	}
	dto, err := h.uc.Verify(c.Request().Context(), hash)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AttestationHandler) Get(c echo.Context) error {
	hash := c.Param("attestation_hash")
	if !reHex64.MatchString(hash) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid attestation_hash path param"})
	}
	dto, err := h.uc.Get(c.Request().Context(), hash)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
