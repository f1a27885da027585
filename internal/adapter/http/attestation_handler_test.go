package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	attestationDomain "private-credit-pool/internal/domain/attestation"
	"private-credit-pool/internal/testutil/attestationmock"
	"private-credit-pool/internal/usecase/attestation"

	"gorm.io/gorm"
)

// acceptAllVerifier stands in for the ed25519 threshold check.
type acceptAllVerifier struct{}

func (acceptAllVerifier) Verify([32]byte, attestationDomain.SignerMetaList, uint8) bool { return true }

func attestationHandlerFixture() (*AttestationHandler, *[]*attestationDomain.Record) {
	var records []*attestationDomain.Record
	repo := &attestationmock.Repo{
		CreateFn: func(_ context.Context, r *attestationDomain.Record) error {
			records = append(records, r)
			return nil
		},
		GetByHashFn: func(_ context.Context, hash string) (*attestationDomain.Record, error) {
			for _, r := range records {
				if r.AttestationHash == hash {
					return r, nil
				}
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
	return NewAttestationHandler(attestation.NewUsecase(repo, acceptAllVerifier{})), &records
}

func TestSubmitAttestation_Created(t *testing.T) {
	h, records := attestationHandlerFixture()

	payload := fmt.Sprintf(`{"pool_id": %q, "new_nav": 1050000, "epoch": 3}`, hexOwner)
	rec := invoke(t, h.Submit, http.MethodPost, validAttestationJSON("nav_update", payload), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(*records) != 1 {
		t.Fatalf("record not stored")
	}
	body := decodeBody(t, rec)
	if body["verified"] != false {
		t.Fatalf("submission must come back unverified: %v", body["verified"])
	}
	hash, _ := body["attestation_hash"].(string)
	if !reHex64.MatchString(hash) {
		t.Fatalf("attestation_hash not 64-hex: %q", hash)
	}
}

func TestSubmitAttestation_UnknownType(t *testing.T) {
	h, _ := attestationHandlerFixture()

	rec := invoke(t, h.Submit, http.MethodPost, validAttestationJSON("witchcraft", `{}`), nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("want 422 for unknown type, got %d", rec.Code)
	}
}

func TestSubmitAttestation_ValidationDetails(t *testing.T) {
	h, _ := attestationHandlerFixture()

	body := fmt.Sprintf(`{
		"type": "nav_update",
		"payload": {"pool_id": %q, "new_nav": 1},
		"signatures": ["tooshort"],
		"signer_addrs": [%q],
		"threshold": 1,
		"timestamp": 1756200000
	}`, hexOwner, strings.Repeat("b", 64))
	rec := invoke(t, h.Submit, http.MethodPost, body, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("want 422, got %d", rec.Code)
	}
	resp := decodeErrorResponse(t, rec)
	if !containsFieldMsg(resp.Details, "Signatures[0]", "128-char") {
		t.Fatalf("missing signature detail: %+v", resp.Details)
	}
}

func TestVerifyAttestation_FlipsFlag(t *testing.T) {
	h, records := attestationHandlerFixture()

	payload := fmt.Sprintf(`{"pool_id": %q, "new_nav": 1050000, "epoch": 3}`, hexOwner)
	sub := invoke(t, h.Submit, http.MethodPost, validAttestationJSON("nav_update", payload), nil)
	hash, _ := decodeBody(t, sub)["attestation_hash"].(string)

	rec := invoke(t, h.Verify, http.MethodPost, "", map[string]string{"attestation_hash": hash})
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !(*records)[0].Verified {
		t.Fatalf("verified flag not flipped")
	}
}

func TestVerifyAttestation_PathAndNotFound(t *testing.T) {
	h, _ := attestationHandlerFixture()

	rec := invoke(t, h.Verify, http.MethodPost, "", map[string]string{"attestation_hash": "xx"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}

	rec = invoke(t, h.Verify, http.MethodPost, "", map[string]string{"attestation_hash": strings.Repeat("c", 64)})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", rec.Code)
	}
}

func TestGetAttestation_NotFound(t *testing.T) {
	h, _ := attestationHandlerFixture()

	rec := invoke(t, h.Get, http.MethodGet, "", map[string]string{"attestation_hash": strings.Repeat("c", 64)})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", rec.Code)
	}
}
