// Package fingerprint derives stable identities for uploaded content.
// Digests key the extraction cache; they are not a security boundary.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
)

// Bytes returns the SHA-256 hex digest of b. Deterministic, and valid for
// empty input (the digest of the empty string).
func Bytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
