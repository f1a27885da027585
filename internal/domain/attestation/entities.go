package attestation

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("attestation not found")
	ErrInvalid            = errors.New("invalid attestation")
	ErrVerificationFailed = errors.New("attestation verification failed")
)

// SignerMeta pairs one attester's signature with its voting weight.
type SignerMeta struct {
	Signer    string `json:"signer"`    // 64-char hex ed25519 public key
	Signature string `json:"signature"` // 128-char hex signature over the payload hash
	Weight    uint8  `json:"weight"`
}

type SignerMetaList []SignerMeta

// Record is the stored attestation, keyed by its binding hash. It is written
// once on submission and mutated exactly once when verification succeeds, so
// failed attestations stay inspectable as submitted-but-unverified.
type Record struct {
	ID              uint64         `gorm:"primaryKey;column:id" json:"-"`
	AttestationHash string         `gorm:"size:64;uniqueIndex:ux_attestations_hash" json:"attestation_hash"`
	SignerMeta      SignerMetaList `gorm:"type:json;serializer:json" json:"signer_meta"`
	PayloadHash     string         `gorm:"size:64" json:"payload_hash"`
	Threshold       uint8          `gorm:"column:threshold" json:"threshold"`
	Verified        bool           `gorm:"column:verified" json:"verified"`
	SubmittedAt     time.Time      `gorm:"autoCreateTime" json:"submitted_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"-"`
}

func (Record) TableName() string { return "attestation_records" }

// Data is the transient, externally-signed statement a caller submits. It is
// never persisted as-is; its hash identifies the stored Record. Build it with
// NewData so the type tag always agrees with the payload variant.
type Data struct {
	Type        Type
	Payload     Payload
	Signatures  []string // 128-char hex, one per signer address
	SignerAddrs []string // 64-char hex ed25519 public keys
	Threshold   uint8
	Nonce       uint64
	Timestamp   int64
}

func NewData(p Payload, signatures, signerAddrs []string, threshold uint8, nonce uint64, timestamp int64) Data {
	return Data{
		Type:        p.AttestationType(),
		Payload:     p,
		Signatures:  signatures,
		SignerAddrs: signerAddrs,
		Threshold:   threshold,
		Nonce:       nonce,
		Timestamp:   timestamp,
	}
}

// SignerMetaList zips signer addresses and signatures. Unit weight per signer;
// weighted attester groups supply their own weights out of band.
func (d Data) SignerMetaList() SignerMetaList {
	n := len(d.SignerAddrs)
	if len(d.Signatures) < n {
		n = len(d.Signatures)
	}
	out := make(SignerMetaList, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, SignerMeta{Signer: d.SignerAddrs[i], Signature: d.Signatures[i], Weight: 1})
	}
	return out
}
