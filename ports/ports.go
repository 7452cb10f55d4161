// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

// Hasher provides token hashing.
type Hasher interface {
	// Hash generates a hash from a plaintext value.
	Hash(plaintext string) ([]byte, error)

	// Compare checks if plaintext matches hash.
	Compare(hash []byte, plaintext string) bool
}

// Random is a source of randomness for token generation.
type Random interface {
	// Bytes returns n random bytes.
	Bytes(n int) ([]byte, error)

	// Token returns a random hex token of n characters.
	Token(n int) (string, error)
}
