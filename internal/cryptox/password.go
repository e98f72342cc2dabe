// Package cryptox implements salted password hashing.
//
// Digests are derived with PBKDF2-HMAC-SHA256 over the UTF-8 password bytes
// and a random salt. Both the digest and the salt are exchanged as standard
// base64 text, which is the form they take in the persisted user records.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"

	"github.com/nullsec/nkauth/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// Iterations is the PBKDF2 work factor.
	Iterations = 100_000
	// SaltSize is the length in bytes of generated salts.
	SaltSize = 32
	// KeySize is the length in bytes of the derived digest.
	KeySize = sha256.Size
)

// DeriveKey runs PBKDF2-HMAC-SHA256 over password and salt.
func DeriveKey(password, salt []byte) []byte {
	return pbkdf2.Key(password, salt, Iterations, KeySize, sha256.New)
}

// HashPassword derives a digest for password. When salt is nil a fresh random
// salt of SaltSize bytes is generated.
//
// Returns the digest and the salt, both base64 encoded.
//
// Example:
//
//	digest, salt := cryptox.HashPassword([]byte("hunter22"), nil)
//	ok := cryptox.VerifyPassword([]byte("hunter22"), digest, salt) // true
func HashPassword(password, salt []byte) (digest string, encodedSalt string) {
	if salt == nil {
		salt = common.GenerateRandByteArray(SaltSize)
	}
	key := DeriveKey(password, salt)
	return base64.StdEncoding.EncodeToString(key), base64.StdEncoding.EncodeToString(salt)
}

// VerifyPassword recomputes the digest of password with the stored salt and
// compares it to the stored digest in constant time. A salt that is not valid
// base64 never verifies.
func VerifyPassword(password []byte, digest, salt string) bool {
	saltBytes, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return false
	}
	candidate, _ := HashPassword(password, saltBytes)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(digest)) == 1
}
