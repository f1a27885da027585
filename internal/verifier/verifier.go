package verifier

import "private-credit-pool/internal/domain/attestation"

// ThresholdVerifier decides whether an attestation's signer set carries
// enough weight. Implementations must be deterministic and side-effect-free;
// swapping in an aggregate scheme (BLS, Schnorr) must not touch the state
// machine around it.
type ThresholdVerifier interface {
	// Verify checks every signer's signature over payloadHash, sums the
	// weights of the valid ones, and reports whether the sum meets the
	// threshold. An empty signer set never verifies.
	Verify(payloadHash [32]byte, signers attestation.SignerMetaList, threshold uint8) bool
}
