package seed

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// Derive computes a deterministic 32-byte record key from a domain tag and the
// record's identifying fields, returned as 64-char lowercase hex. Records are
// content-addressed: the same (tag, fields) always maps to the same key, so
// lookups never need a secondary index.
func Derive(tag string, parts ...[]byte) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(tag))
	for _, p := range parts {
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Keccak256 hashes the concatenation of the given byte slices.
func Keccak256(parts ...[]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, p := range parts {
		h.Write(p)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
