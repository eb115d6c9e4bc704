// Package auth holds the credential primitives: password hashing and signed
// bearer tokens. Both are pure functions of their inputs plus configuration
// fixed at construction time, so a single instance is safe for concurrent use.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher wraps bcrypt with a fixed cost. Each Hash call draws a fresh
// salt, so hashing the same secret twice yields different outputs.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher with the given bcrypt cost. Costs outside
// bcrypt's supported range fall back to the library default.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash produces a self-describing salted hash of secret. It fails only on
// backend failure (e.g. no randomness source), never on secret content.
func (h *PasswordHasher) Hash(secret string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether secret matches hashedSecret. A mismatch is a normal
// false result, not an error. Comparison is delegated to bcrypt, which does
// not short-circuit on the first differing byte.
func (h *PasswordHasher) Verify(secret, hashedSecret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedSecret), []byte(secret)) == nil
}
