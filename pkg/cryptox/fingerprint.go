package cryptox

import (
	"crypto/sha256"
	"encoding/base64"
)

// Fingerprint returns a deterministic SHA-256 fingerprint of a value as a
// base64url string (43 chars). Used as a stable lookup key for bulky values
// like push-subscription JSON, so rows can be found without comparing the
// full payload.
func Fingerprint(value string) string {
	sum := sha256.Sum256([]byte(value))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
