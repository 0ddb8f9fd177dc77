// Package cryptox implements the one-way digests used for credentials and
// personally-identifying fields.
//
// Passwords are hashed with argon2id and a per-digest random salt; the
// resulting digest is self-describing (PHC string format), so verification
// re-derives the key from the stored parameters and compares in constant
// time. Identity fields (national id, phone) are normalized to their digit
// content and hashed with SHA-256, producing a deterministic digest usable
// as a uniqueness key.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/rmachado/storeauth/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16
)

var errMalformedDigest = errors.New("malformed secret digest")

// DigestSecret hashes a password with argon2id and a fresh random salt,
// returning a PHC-encoded digest string. The plaintext is never stored.
func DigestSecret(secret string) (string, error) {
	salt := common.GenerateRandByteArray(saltLen)
	key := argon2.IDKey([]byte(secret), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	digest := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))

	return digest, nil
}

// VerifySecret re-derives the key for secret using the salt and parameters
// embedded in digest and compares the results in constant time. It never
// decodes the stored digest back into a password.
func VerifySecret(secret, digest string) bool {
	salt, key, memory, time, threads, err := decodeDigest(digest)
	if err != nil {
		return false
	}

	candidate := argon2.IDKey([]byte(secret), salt, time, memory, threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, candidate) == 1
}

func decodeDigest(digest string) (salt, key []byte, memory, time uint32, threads uint8, err error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, 0, 0, 0, errMalformedDigest
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, nil, 0, 0, 0, errMalformedDigest
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return nil, nil, 0, 0, 0, errMalformedDigest
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, 0, 0, 0, errMalformedDigest
	}

	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, 0, 0, 0, errMalformedDigest
	}

	return salt, key, memory, time, threads, nil
}

// DigestIdentity strips every non-digit character from raw and returns the
// SHA-256 hex digest of the remaining digit string. Formatting differences
// ("123.456.789-00" vs "12345678900") therefore never produce distinct
// digests.
func DigestIdentity(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
