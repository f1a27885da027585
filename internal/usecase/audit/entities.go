package audit

import (
	"time"

	domainAtt "private-credit-pool/internal/domain/attestation"
	domainAudit "private-credit-pool/internal/domain/audit"
)

type RequestInput struct {
	Requester      string
	LoanID         string
	Auditor        string
	LegalOrderHash string // 64-char hex, must not be all zeroes
}

type GrantInput struct {
	PoolKey     string
	Caller      string // must be the pool authority
	LoanID      string
	Auditor     string
	Attestation domainAtt.Data // verified AuditGrant for (loan, auditor)
}

type RequestDTO struct {
	RequestKey     string     `json:"request_key"`
	Requester      string     `json:"requester"`
	LoanID         string     `json:"loan_id"`
	Auditor        string     `json:"auditor"`
	PermissionHash string     `json:"permission_hash"`
	LegalOrderHash string     `json:"legal_order_hash"`
	Status         string     `json:"status"`
	GrantedAt      *time.Time `json:"granted_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func toDTO(r *domainAudit.Request) *RequestDTO {
	return &RequestDTO{
		RequestKey:     r.RequestKey,
		Requester:      r.Requester,
		LoanID:         r.LoanID,
		Auditor:        r.Auditor,
		PermissionHash: r.PermissionHash,
		LegalOrderHash: r.LegalOrderHash,
		Status:         string(r.Status),
		GrantedAt:      r.GrantedAt,
		CreatedAt:      r.CreatedAt,
	}
}
