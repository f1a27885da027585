package id

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID64 returns 64 hex characters: a random 32-byte identifier, used for
// loan ids and other 32-byte record identifiers.
func NewID64() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
