// Package auth provides password hashing and the ownership guard.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Scheme selects how new password hashes are produced.
type Scheme string

const (
	// SchemeLegacy is the original unsalted single-round SHA-256 hex
	// digest. It is the default because existing rows store it and login
	// matches on (email, digest) equality.
	SchemeLegacy Scheme = "legacy"
	// SchemeArgon2id produces salted Argon2id hashes in PHC format.
	SchemeArgon2id Scheme = "argon2id"
)

// Argon2id parameters (OWASP recommended minimum).
const (
	argon2Time    = 3
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32
	argon2SaltLen = 16
)

var (
	// ErrInvalidHash indicates the stored hash format is invalid.
	ErrInvalidHash = errors.New("invalid hash format")
	// ErrIncompatibleVersion indicates the hash version is not supported.
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
)

// ParseScheme maps a config string to a Scheme, defaulting to legacy.
func ParseScheme(s string) Scheme {
	if Scheme(s) == SchemeArgon2id {
		return SchemeArgon2id
	}
	return SchemeLegacy
}

// DigestPassword returns the legacy unsalted SHA-256 hex digest.
// Deterministic by design: login looks a user up by (email, digest).
func DigestPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// HashPassword hashes a password under the given scheme.
func HashPassword(password string, scheme Scheme) (string, error) {
	if scheme == SchemeArgon2id {
		return hashArgon2id(password)
	}
	return DigestPassword(password), nil
}

// VerifyPassword checks a password against a stored hash of either scheme.
// Argon2id hashes are recognized by their PHC prefix; anything else is
// treated as a legacy digest and compared in constant time.
func VerifyPassword(password, stored string) (bool, error) {
	if strings.HasPrefix(stored, "$argon2id$") {
		return verifyArgon2id(password, stored)
	}
	digest := DigestPassword(password)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(stored)) == 1, nil
}

// hashArgon2id creates an Argon2id hash in PHC string format:
// $argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
func hashArgon2id(password string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argon2Memory, argon2Time, argon2Threads, b64Salt, b64Hash,
	), nil
}

// verifyArgon2id checks the password against a PHC-format hash using
// constant-time comparison.
func verifyArgon2id(password, encodedHash string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return false, ErrInvalidHash
	}

	if parts[1] != "argon2id" {
		return false, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, ErrInvalidHash
	}
	if version != argon2.Version {
		return false, ErrIncompatibleVersion
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, ErrInvalidHash
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, ErrInvalidHash
	}

	computedHash := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(expectedHash)))

	return subtle.ConstantTimeCompare(computedHash, expectedHash) == 1, nil
}

// QuickHash returns a SHA256 hash of the input for cache keys.
// This is NOT for password storage, only for cache key derivation.
func QuickHash(input string) string {
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:16])
}
