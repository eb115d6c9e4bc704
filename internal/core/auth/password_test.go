package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashProducesUniqueSalts(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	first, err := h.Hash("longenoughpass")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	second, err := h.Hash("longenoughpass")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if first == second {
		t.Fatalf("two hashes of the same secret must differ")
	}
	if !h.Verify("longenoughpass", first) {
		t.Fatalf("first hash does not verify")
	}
	if !h.Verify("longenoughpass", second) {
		t.Fatalf("second hash does not verify")
	}
}

func TestPasswordHasher_VerifyMismatchIsFalseNotError(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("correct-horse")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if h.Verify("battery-staple", hash) {
		t.Fatalf("different password must not verify")
	}
	if h.Verify("", hash) {
		t.Fatalf("empty password must not verify")
	}
}

func TestPasswordHasher_HashIsSelfDescribing(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("somepassword")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected bcrypt format hash, got %q", hash)
	}
	if strings.Contains(hash, "somepassword") {
		t.Fatalf("hash must not contain the plaintext secret")
	}

	// A hasher with a different cost still verifies: parameters are embedded.
	other := NewPasswordHasher(bcrypt.MinCost + 1)
	if !other.Verify("somepassword", hash) {
		t.Fatalf("verification must use parameters embedded in the hash")
	}
}

func TestPasswordHasher_InvalidCostFallsBack(t *testing.T) {
	h := NewPasswordHasher(99)

	hash, err := h.Hash("somepassword")
	if err != nil {
		t.Fatalf("hash with fallback cost failed: %v", err)
	}
	if !h.Verify("somepassword", hash) {
		t.Fatalf("hash does not verify")
	}
}
