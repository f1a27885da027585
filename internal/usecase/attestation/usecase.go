package attestation

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	domain "private-credit-pool/internal/domain/attestation"
	"private-credit-pool/internal/verifier"

	"gorm.io/gorm"
)

type Usecase struct {
	repo     domain.Repository
	verifier verifier.ThresholdVerifier
}

func NewUsecase(r domain.Repository, v verifier.ThresholdVerifier) *Usecase {
	return &Usecase{repo: r, verifier: v}
}

type RecordDTO struct {
	AttestationHash string                `json:"attestation_hash"`
	PayloadHash     string                `json:"payload_hash"`
	SignerMeta      domain.SignerMetaList `json:"signer_meta"`
	Threshold       uint8                 `json:"threshold"`
	Verified        bool                  `json:"verified"`
	SubmittedAt     time.Time             `json:"submitted_at"`
}

func toDTO(r *domain.Record) *RecordDTO {
	return &RecordDTO{
		AttestationHash: r.AttestationHash,
		PayloadHash:     r.PayloadHash,
		SignerMeta:      r.SignerMeta,
		Threshold:       r.Threshold,
		Verified:        r.Verified,
		SubmittedAt:     r.SubmittedAt,
	}
}

// Submit stores an attestation as unverified. The record's identity is the
// binding hash over payload, nonce and timestamp; submitting the same
// statement twice hits the unique index on that hash.
func (u *Usecase) Submit(ctx context.Context, data domain.Data) (*RecordDTO, error) {
	hash, err := data.Hash()
	if err != nil {
		return nil, err
	}
	payloadHash, err := data.PayloadHash()
	if err != nil {
		return nil, err
	}

	rec := &domain.Record{
		AttestationHash: hash,
		SignerMeta:      data.SignerMetaList(),
		PayloadHash:     hex.EncodeToString(payloadHash[:]),
		Threshold:       data.Threshold,
		Verified:        false,
		SubmittedAt:     time.Now().UTC(),
	}
	if err := u.repo.Create(ctx, rec); err != nil {
		return nil, err
	}

	log.Printf("attestation submitted: hash=%s type=%s signers=%d", hash, data.Type, len(rec.SignerMeta))
	return toDTO(rec), nil
}

// Verify runs the threshold check on a previously submitted attestation and
// reports the verdict instead of failing, so unverified attestations stay
// inspectable. The verified flag flips at most once.
func (u *Usecase) Verify(ctx context.Context, attestationHash string) (*RecordDTO, error) {
	rec, err := u.repo.GetByHash(ctx, attestationHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if rec.AttestationHash != attestationHash {
		return nil, domain.ErrInvalid
	}
	if rec.Verified {
		return toDTO(rec), nil
	}

	payloadHash, err := decodeHash(rec.PayloadHash)
	if err != nil {
		return nil, fmt.Errorf("%w: stored payload hash corrupt", domain.ErrInvalid)
	}

	if u.verifier.Verify(payloadHash, rec.SignerMeta, rec.Threshold) {
		rec.Verified = true
		if err := u.repo.Save(ctx, rec); err != nil {
			return nil, err
		}
		log.Printf("attestation verified: hash=%s weight_threshold=%d", attestationHash, rec.Threshold)
	} else {
		log.Printf("attestation verification failed: hash=%s", attestationHash)
	}
	return toDTO(rec), nil
}

func (u *Usecase) Get(ctx context.Context, attestationHash string) (*RecordDTO, error) {
	rec, err := u.repo.GetByHash(ctx, attestationHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return toDTO(rec), nil
}

// RequireVerified gates a state change on an attested fact: the data's type
// must match, and the record under the data's hash must exist and have passed
// verification. Runs against whatever repository the caller's transaction
// provides.
func RequireVerified(ctx context.Context, repo domain.Repository, data domain.Data, want domain.Type) error {
	if data.Type != want {
		return fmt.Errorf("%w: attestation type %q, want %q", domain.ErrInvalid, data.Type, want)
	}
	hash, err := data.Hash()
	if err != nil {
		return err
	}
	rec, err := repo.GetByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrVerificationFailed
		}
		return err
	}
	if !rec.Verified {
		return domain.ErrVerificationFailed
	}
	return nil
}

func decodeHash(s string) ([32]byte, error) {
	var out [32]byte
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 32 {
		return out, errors.New("not a 32-byte hex hash")
	}
	copy(out[:], raw)
	return out, nil
}
