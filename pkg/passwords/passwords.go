// Package passwords provides the stored-credential digest shared by the
// employee catalog and the login flow.
package passwords

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

// Digest hashes a plaintext password into its stored form. The scheme is
// fixed: existing rows must keep verifying after upgrades.
func Digest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// Verify reports whether the plaintext password matches the stored digest.
func Verify(password, digest string) bool {
	computed := Digest(password)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}
