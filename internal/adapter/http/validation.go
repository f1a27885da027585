package http

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

var (
	reHex64  = regexp.MustCompile(`^[a-f0-9]{64}$`)
	reHex128 = regexp.MustCompile(`^[a-f0-9]{128}$`)
)

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// addresses, hashes, pool/loan keys = 64-char lowercase hex (32 bytes)
	_ = v.RegisterValidation("hex64", func(fl validator.FieldLevel) bool {
		return reHex64.MatchString(fl.Field().String())
	})
	// ed25519 signatures = 128-char lowercase hex (64 bytes)
	_ = v.RegisterValidation("hex128", func(fl validator.FieldLevel) bool {
		return reHex128.MatchString(fl.Field().String())
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "hex64":
			out = append(out, FieldError{Field: field, Message: "must be 64-char lowercase hex"})
		case "hex128":
			out = append(out, FieldError{Field: field, Message: "must be 128-char lowercase hex"})
		case "min":
			out = append(out, FieldError{Field: field, Message: "must have at least " + e.Param() + " elements"})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
