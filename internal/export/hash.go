package export

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/sourcegraph/conc/iter"
	"golang.org/x/crypto/argon2"
)

// HashType represents the different hashing algorithms available.
type HashType string

const (
	// HashTypeNone exports identities unchanged.
	HashTypeNone HashType = "none"
	// HashTypeArgon2id uses the Argon2id algorithm for hashing.
	HashTypeArgon2id HashType = "argon2id"
	// HashTypeSHA256 uses iterated salted SHA256.
	HashTypeSHA256 HashType = "sha256"
)

// Valid reports whether h names a supported algorithm.
func (h HashType) Valid() bool {
	switch h {
	case HashTypeNone, HashTypeArgon2id, HashTypeSHA256:
		return true
	default:
		return false
	}
}

// HashIdentity pseudonymizes a member identity with the given algorithm and salt.
func HashIdentity(identity, salt string, hashType HashType, iterations, memory uint32) string {
	data := []byte(identity)

	var hash []byte

	switch hashType {
	case HashTypeArgon2id:
		hash = argon2.IDKey(data, []byte(salt), iterations, memory*1024, 1, 32)
	case HashTypeSHA256:
		hash = []byte(salt)

		h := sha256.New()
		for range max(iterations, 1) {
			h.Reset()
			h.Write(data)
			h.Write(hash)
			hash = h.Sum(nil)
		}
	case HashTypeNone:
		return identity
	}

	return hex.EncodeToString(hash)
}

// hashIdentities hashes identities concurrently, keeping their order.
func hashIdentities(identities []string, cfg *Config) []string {
	mapper := iter.Mapper[string, string]{MaxGoroutines: max(cfg.Concurrency, 1)}

	return mapper.Map(identities, func(identity *string) string {
		return HashIdentity(*identity, cfg.Salt, cfg.HashType, cfg.Iterations, cfg.Memory)
	})
}
