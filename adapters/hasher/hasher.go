// Package hasher provides bearer token hashing implementations.
//
// The server never stores the accepted token, only its bcrypt hash
// (auth.token_hash); presented tokens are compared against that hash
// on every query.
package hasher

import (
	"bytes"

	"golang.org/x/crypto/bcrypt"

	"github.com/pokkur/layr/ports"
)

// Bcrypt hashes tokens with bcrypt.
type Bcrypt struct {
	cost int
}

// NewBcrypt creates a bcrypt hasher. A cost of zero or outside the
// bcrypt range selects bcrypt.DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Hash derives a bcrypt hash for the token. Each call salts anew, so
// equal tokens hash differently.
func (h *Bcrypt) Hash(token string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(token), h.cost)
}

// Compare reports whether the token matches the hash. Malformed hashes
// never match.
func (h *Bcrypt) Compare(hash []byte, token string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(token)) == nil
}

var _ ports.Hasher = (*Bcrypt)(nil)

// Fake passes tokens through unhashed for tests (NOT FOR PRODUCTION).
type Fake struct{}

// Hash returns the token itself.
func (Fake) Hash(token string) ([]byte, error) {
	return []byte(token), nil
}

// Compare checks plain equality.
func (Fake) Compare(hash []byte, token string) bool {
	return bytes.Equal(hash, []byte(token))
}

var _ ports.Hasher = Fake{}
