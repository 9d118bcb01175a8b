package auth

import (
	"github.com/alexedwards/argon2id"
	"github.com/trustelem/zxcvbn"
)

// HashPassword hashes a plaintext password with argon2id using a fresh
// random salt, producing a PHC-format string ($argon2id$v=19$...).
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams)
}

// VerifyPassword checks a plaintext password against a stored PHC hash.
func VerifyPassword(password, hash string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, hash)

	return err == nil && match
}

// PasswordScore estimates password strength as a zxcvbn score from 0 to 4.
func PasswordScore(password string) int {
	return zxcvbn.PasswordStrength(password, nil).Score
}
