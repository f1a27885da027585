package http

import (
	"errors"
	"net/http"

	attestationDomain "private-credit-pool/internal/domain/attestation"
	auditDomain "private-credit-pool/internal/domain/audit"
	loanDomain "private-credit-pool/internal/domain/loan"
	poolDomain "private-credit-pool/internal/domain/pool"
	receiptDomain "private-credit-pool/internal/domain/receipt"

	"github.com/labstack/echo/v4"
)

// httpStatus maps domain errors onto HTTP status codes. Anything unknown is a
// 500 so bugs don't masquerade as client errors.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, poolDomain.ErrNotFound),
		errors.Is(err, loanDomain.ErrNotFound),
		errors.Is(err, receiptDomain.ErrNotFound),
		errors.Is(err, auditDomain.ErrNotFound),
		errors.Is(err, attestationDomain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, poolDomain.ErrUnauthorized),
		errors.Is(err, attestationDomain.ErrVerificationFailed):
		return http.StatusForbidden
	case errors.Is(err, poolDomain.ErrEmergencyPause),
		errors.Is(err, loanDomain.ErrInvalidTransition),
		errors.Is(err, auditDomain.ErrRequestDenied),
		errors.Is(err, receiptDomain.ErrInsufficientFunds):
		return http.StatusConflict
	case errors.Is(err, poolDomain.ErrInvalidConfig),
		errors.Is(err, loanDomain.ErrInvalidCommit),
		errors.Is(err, attestationDomain.ErrInvalid),
		errors.Is(err, auditDomain.ErrInvalidAuditor),
		errors.Is(err, auditDomain.ErrLegalOrderFailed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func fail(c echo.Context, err error) error {
	return c.JSON(httpStatus(err), ErrorResponse{Error: err.Error()})
}

func failValidation(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Details: ToFieldErrors(err),
	})
}
