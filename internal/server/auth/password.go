package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/argon2"

	"thesisarchive/internal/common"
)

// argon2id parameters. Changing these invalidates stored hashes, so bump
// them only together with a rehash-on-login migration.
const (
	saltSize     = 32
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	keySize      = 32
)

// HashPassword derives an argon2id hash of the password under a fresh random
// salt and returns both. The plaintext is never stored.
func HashPassword(password string) (hash []byte, salt []byte) {
	salt = common.GenerateRandByteArray(saltSize)
	hash = deriveKey([]byte(password), salt)
	return hash, salt
}

// VerifyPassword re-derives the hash for the candidate password under the
// stored salt and compares in constant time.
func VerifyPassword(password string, hash, salt []byte) bool {
	candidate := deriveKey([]byte(password), salt)
	return subtle.ConstantTimeCompare(candidate, hash) == 1
}

// RandomSalt returns a salt suitable for burning a verification cycle on an
// unknown account, so lookup misses cost the same as mismatches.
func RandomSalt() []byte {
	return common.GenerateRandByteArray(saltSize)
}

func deriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, keySize)
}
