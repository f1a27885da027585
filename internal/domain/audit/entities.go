package audit

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("audit request not found")
	ErrRequestDenied    = errors.New("audit request denied")
	ErrInvalidAuditor   = errors.New("invalid auditor")
	ErrLegalOrderFailed = errors.New("legal order verification failed")
)

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusDenied   RequestStatus = "denied"
	StatusExpired  RequestStatus = "expired"
)

// Request is one auditor's disclosure request for one loan. The permission
// hash binds (loan id, auditor) at creation; a verified AuditGrant attestation
// for the same pair moves it pending -> approved.
type Request struct {
	ID             uint64        `gorm:"primaryKey;column:id" json:"-"`
	RequestKey     string        `gorm:"size:64;uniqueIndex:ux_audit_requests_key" json:"request_key"`
	Requester      string        `gorm:"size:64" json:"requester"`
	LoanID         string        `gorm:"size:64;index:idx_audit_requests_loan" json:"loan_id"`
	Auditor        string        `gorm:"size:64" json:"auditor"`
	PermissionHash string        `gorm:"size:64" json:"permission_hash"`
	LegalOrderHash string        `gorm:"size:64" json:"legal_order_hash"`
	Status         RequestStatus `gorm:"size:16;default:'pending'" json:"status"`
	GrantedAt      *time.Time    `gorm:"column:granted_at" json:"granted_at,omitempty"`
	CreatedAt      time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"autoUpdateTime" json:"-"`
}

func (Request) TableName() string { return "audit_requests" }
