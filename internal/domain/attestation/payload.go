package attestation

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

type Type string

const (
	TypeNavUpdate        Type = "nav_update"
	TypeLoanApproval     Type = "loan_approval"
	TypeLoanDisbursement Type = "loan_disbursement"
	TypeLoanRepayment    Type = "loan_repayment"
	TypeCovenantBreach   Type = "covenant_breach"
	TypeLiquidation      Type = "liquidation"
	TypeAuditGrant       Type = "audit_grant"
	TypeEmergencyPause   Type = "emergency_pause"
)

// Payload is the typed statement of fact inside an attestation. Each variant
// knows its own type tag, so a Data built from a Payload can never carry a
// mismatched tag, and encodes itself to the canonical byte layout the
// attester group signed (1-byte variant index, fixed-width little-endian
// integers, raw 32-byte hashes/addresses, length-prefixed strings).
type Payload interface {
	AttestationType() Type
	Encode() ([]byte, error)
}

type NavUpdatePayload struct {
	PoolID string `json:"pool_id" validate:"required,hex64"`
	NewNav uint64 `json:"new_nav" validate:"required"`
	Epoch  uint64 `json:"epoch"`
}

type LoanApprovalPayload struct {
	LoanID   string `json:"loan_id" validate:"required,hex64"`
	Borrower string `json:"borrower" validate:"required,hex64"`
	Amount   uint64 `json:"amount" validate:"required"`
}

type LoanDisbursementPayload struct {
	LoanID      string `json:"loan_id" validate:"required,hex64"`
	Amount      uint64 `json:"amount" validate:"required"`
	Beneficiary string `json:"beneficiary" validate:"required,hex64"`
}

type LoanRepaymentPayload struct {
	LoanID           string `json:"loan_id" validate:"required,hex64"`
	Amount           uint64 `json:"amount" validate:"required"`
	RemainingBalance uint64 `json:"remaining_balance"`
}

type CovenantBreachPayload struct {
	LoanID     string `json:"loan_id" validate:"required,hex64"`
	BreachType string `json:"breach_type" validate:"required"`
	Severity   uint8  `json:"severity"`
}

type LiquidationPayload struct {
	LoanID           string `json:"loan_id" validate:"required,hex64"`
	CollateralAmount uint64 `json:"collateral_amount"`
	RecoveryAmount   uint64 `json:"recovery_amount"`
}

type AuditGrantPayload struct {
	LoanID      string `json:"loan_id" validate:"required,hex64"`
	Auditor     string `json:"auditor" validate:"required,hex64"`
	AccessLevel uint8  `json:"access_level"`
}

type EmergencyPausePayload struct {
	Reason   string `json:"reason" validate:"required"`
	Duration uint64 `json:"duration"`
}

func (NavUpdatePayload) AttestationType() Type        { return TypeNavUpdate }
func (LoanApprovalPayload) AttestationType() Type     { return TypeLoanApproval }
func (LoanDisbursementPayload) AttestationType() Type { return TypeLoanDisbursement }
func (LoanRepaymentPayload) AttestationType() Type    { return TypeLoanRepayment }
func (CovenantBreachPayload) AttestationType() Type   { return TypeCovenantBreach }
func (LiquidationPayload) AttestationType() Type      { return TypeLiquidation }
func (AuditGrantPayload) AttestationType() Type       { return TypeAuditGrant }
func (EmergencyPausePayload) AttestationType() Type   { return TypeEmergencyPause }

// variantIndex fixes the 1-byte discriminator per variant for the canonical
// encoding. Order matches the attester group's wire format and never changes.
var variantIndex = map[Type]uint8{
	TypeNavUpdate:        0,
	TypeLoanApproval:     1,
	TypeLoanDisbursement: 2,
	TypeLoanRepayment:    3,
	TypeCovenantBreach:   4,
	TypeLiquidation:      5,
	TypeAuditGrant:       6,
	TypeEmergencyPause:   7,
}

type encoder struct {
	buf bytes.Buffer
	err error
}

func newEncoder(t Type) *encoder {
	e := &encoder{}
	e.buf.WriteByte(variantIndex[t])
	return e
}

func (e *encoder) u8(v uint8) { e.buf.WriteByte(v) }

func (e *encoder) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf.Write(b[:])
}

// hex32 appends a 32-byte field given as 64-char hex.
func (e *encoder) hex32(field, v string) {
	if e.err != nil {
		return
	}
	raw, err := hex.DecodeString(v)
	if err != nil || len(raw) != 32 {
		e.err = fmt.Errorf("%w: %s is not 32-byte hex", ErrInvalid, field)
		return
	}
	e.buf.Write(raw)
}

func (e *encoder) str(v string) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(len(v)))
	e.buf.Write(b[:])
	e.buf.WriteString(v)
}

func (e *encoder) bytes() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.buf.Bytes(), nil
}

func (p NavUpdatePayload) Encode() ([]byte, error) {
	e := newEncoder(TypeNavUpdate)
	e.hex32("pool_id", p.PoolID)
	e.u64(p.NewNav)
	e.u64(p.Epoch)
	return e.bytes()
}

func (p LoanApprovalPayload) Encode() ([]byte, error) {
	e := newEncoder(TypeLoanApproval)
	e.hex32("loan_id", p.LoanID)
	e.hex32("borrower", p.Borrower)
	e.u64(p.Amount)
	return e.bytes()
}

func (p LoanDisbursementPayload) Encode() ([]byte, error) {
	e := newEncoder(TypeLoanDisbursement)
	e.hex32("loan_id", p.LoanID)
	e.u64(p.Amount)
	e.hex32("beneficiary", p.Beneficiary)
	return e.bytes()
}

func (p LoanRepaymentPayload) Encode() ([]byte, error) {
	e := newEncoder(TypeLoanRepayment)
	e.hex32("loan_id", p.LoanID)
	e.u64(p.Amount)
	e.u64(p.RemainingBalance)
	return e.bytes()
}

func (p CovenantBreachPayload) Encode() ([]byte, error) {
	e := newEncoder(TypeCovenantBreach)
	e.hex32("loan_id", p.LoanID)
	e.str(p.BreachType)
	e.u8(p.Severity)
	return e.bytes()
}

func (p LiquidationPayload) Encode() ([]byte, error) {
	e := newEncoder(TypeLiquidation)
	e.hex32("loan_id", p.LoanID)
	e.u64(p.CollateralAmount)
	e.u64(p.RecoveryAmount)
	return e.bytes()
}

func (p AuditGrantPayload) Encode() ([]byte, error) {
	e := newEncoder(TypeAuditGrant)
	e.hex32("loan_id", p.LoanID)
	e.hex32("auditor", p.Auditor)
	e.u8(p.AccessLevel)
	return e.bytes()
}

func (p EmergencyPausePayload) Encode() ([]byte, error) {
	e := newEncoder(TypeEmergencyPause)
	e.str(p.Reason)
	e.u64(p.Duration)
	return e.bytes()
}

// DecodePayload unmarshals the JSON payload for a declared type, picking the
// variant and the tag together so they cannot drift apart.
func DecodePayload(t Type, raw json.RawMessage) (Payload, error) {
	var (
		p   Payload
		err error
	)
	switch t {
	case TypeNavUpdate:
		var v NavUpdatePayload
		err = json.Unmarshal(raw, &v)
		p = v
	case TypeLoanApproval:
		var v LoanApprovalPayload
		err = json.Unmarshal(raw, &v)
		p = v
	case TypeLoanDisbursement:
		var v LoanDisbursementPayload
		err = json.Unmarshal(raw, &v)
		p = v
	case TypeLoanRepayment:
		var v LoanRepaymentPayload
		err = json.Unmarshal(raw, &v)
		p = v
	case TypeCovenantBreach:
		var v CovenantBreachPayload
		err = json.Unmarshal(raw, &v)
		p = v
	case TypeLiquidation:
		var v LiquidationPayload
		err = json.Unmarshal(raw, &v)
		p = v
	case TypeAuditGrant:
		var v AuditGrantPayload
		err = json.Unmarshal(raw, &v)
		p = v
	case TypeEmergencyPause:
		var v EmergencyPausePayload
		err = json.Unmarshal(raw, &v)
		p = v
	default:
		return nil, fmt.Errorf("%w: unknown attestation type %q", ErrInvalid, t)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return p, nil
}
