package attestation

import (
	"encoding/binary"
	"encoding/hex"

	"private-credit-pool/pkg/seed"
)

// PayloadHash is the digest the attester group signs: keccak-256 over the
// canonical payload encoding.
func (d Data) PayloadHash() ([32]byte, error) {
	b, err := d.Payload.Encode()
	if err != nil {
		return [32]byte{}, err
	}
	return seed.Keccak256(b), nil
}

// Hash binds payload, nonce and timestamp into the attestation's identity.
// The stored record's key is derived from this hash, so a record can never be
// looked up under a hash other than the one its contents produce.
func (d Data) Hash() (string, error) {
	b, err := d.Payload.Encode()
	if err != nil {
		return "", err
	}
	var nonce, ts [8]byte
	binary.LittleEndian.PutUint64(nonce[:], d.Nonce)
	binary.LittleEndian.PutUint64(ts[:], uint64(d.Timestamp))
	sum := seed.Keccak256(b, nonce[:], ts[:])
	return hex.EncodeToString(sum[:]), nil
}
