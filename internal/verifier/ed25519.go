package verifier

import (
	"crypto/ed25519"
	"encoding/hex"

	"private-credit-pool/internal/domain/attestation"
)

// Ed25519Verifier checks each signer's ed25519 signature over the payload
// hash against a fixed attester group. Signers outside the group contribute
// nothing, whatever their signature says.
type Ed25519Verifier struct {
	group map[string]struct{} // 64-char hex public keys
}

func NewEd25519Verifier(groupKeys []string) *Ed25519Verifier {
	g := make(map[string]struct{}, len(groupKeys))
	for _, k := range groupKeys {
		g[k] = struct{}{}
	}
	return &Ed25519Verifier{group: g}
}

func (v *Ed25519Verifier) Verify(payloadHash [32]byte, signers attestation.SignerMetaList, threshold uint8) bool {
	if len(signers) == 0 {
		return false
	}
	var weight uint64
	seen := make(map[string]struct{}, len(signers))
	for _, s := range signers {
		if _, ok := v.group[s.Signer]; !ok {
			continue
		}
		// a signer counts once, however many entries it files
		if _, dup := seen[s.Signer]; dup {
			continue
		}
		pub, err := hex.DecodeString(s.Signer)
		if err != nil || len(pub) != ed25519.PublicKeySize {
			continue
		}
		sig, err := hex.DecodeString(s.Signature)
		if err != nil || len(sig) != ed25519.SignatureSize {
			continue
		}
		if !ed25519.Verify(ed25519.PublicKey(pub), payloadHash[:], sig) {
			continue
		}
		seen[s.Signer] = struct{}{}
		weight += uint64(s.Weight)
	}
	return weight >= uint64(threshold)
}
