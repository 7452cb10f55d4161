package hasher_test

import (
	"testing"

	"github.com/pokkur/layr/adapters/hasher"
	"golang.org/x/crypto/bcrypt"
)

func TestBcrypt_NewBcrypt_ValidCost(t *testing.T) {
	h := hasher.NewBcrypt(10)
	if h == nil {
		t.Fatal("expected hasher")
	}
}

func TestBcrypt_NewBcrypt_InvalidCost(t *testing.T) {
	// Too low cost should default
	h := hasher.NewBcrypt(1)
	if h == nil {
		t.Fatal("expected hasher with default cost")
	}

	// Too high cost should default
	h = hasher.NewBcrypt(100)
	if h == nil {
		t.Fatal("expected hasher with default cost")
	}
}

func TestBcrypt_Hash(t *testing.T) {
	h := hasher.NewBcrypt(bcrypt.MinCost) // Use min cost for speed in tests

	hash, err := h.Hash("token123")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	if len(hash) == 0 {
		t.Error("expected non-empty hash")
	}

	// Hash should be bcrypt format
	if hash[0] != '$' {
		t.Error("expected bcrypt format starting with $")
	}
}

func TestBcrypt_Hash_DifferentInputs(t *testing.T) {
	h := hasher.NewBcrypt(bcrypt.MinCost)

	hash1, _ := h.Hash("token1")
	hash2, _ := h.Hash("token2")

	if string(hash1) == string(hash2) {
		t.Error("different tokens should produce different hashes")
	}
}

func TestBcrypt_Hash_SameInputDifferentOutput(t *testing.T) {
	h := hasher.NewBcrypt(bcrypt.MinCost)

	hash1, _ := h.Hash("token")
	hash2, _ := h.Hash("token")

	// Bcrypt uses random salt, so same input gives different hash
	if string(hash1) == string(hash2) {
		t.Error("same token should produce different hashes due to salt")
	}
}

func TestBcrypt_Compare(t *testing.T) {
	h := hasher.NewBcrypt(bcrypt.MinCost)

	hash, err := h.Hash("secret-token")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	if !h.Compare(hash, "secret-token") {
		t.Error("Compare should accept the original plaintext")
	}
	if h.Compare(hash, "wrong-token") {
		t.Error("Compare should reject a different plaintext")
	}
	if h.Compare([]byte("not a bcrypt hash"), "secret-token") {
		t.Error("Compare should reject a malformed hash")
	}
}

func TestFake(t *testing.T) {
	h := hasher.Fake{}

	hash, err := h.Hash("plain")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if string(hash) != "plain" {
		t.Errorf("Fake.Hash = %q, want %q", hash, "plain")
	}

	if !h.Compare([]byte("plain"), "plain") {
		t.Error("Fake.Compare should accept equal values")
	}
	if h.Compare([]byte("plain"), "other") {
		t.Error("Fake.Compare should reject different values")
	}
}
