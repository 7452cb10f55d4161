// Package random provides Random implementations.
package random

import (
	"crypto/rand"
	"encoding/hex"
	"sync"

	"github.com/pokkur/layr/ports"
)

// Real uses crypto/rand for secure randomness.
type Real struct{}

// Bytes generates n cryptographically secure random bytes.
func (Real) Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// Token generates a random hex token of n characters.
func (r Real) Token(n int) (string, error) {
	// n/2 bytes yield n hex chars
	b, err := r.Bytes((n + 1) / 2)
	if err != nil {
		return "", err
	}
	s := hex.EncodeToString(b)
	if len(s) > n {
		s = s[:n]
	}
	return s, nil
}

// Ensure interface compliance.
var _ ports.Random = Real{}

// Fake provides deterministic randomness for testing.
type Fake struct {
	mu      sync.Mutex
	counter int
}

// NewFake creates a fake random source.
func NewFake() *Fake {
	return &Fake{}
}

// Bytes returns bytes derived from an internal counter.
func (f *Fake) Bytes(n int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.counter++
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(f.counter)
	}
	return b, nil
}

// Token returns a deterministic hex token.
func (f *Fake) Token(n int) (string, error) {
	b, err := f.Bytes((n + 1) / 2)
	if err != nil {
		return "", err
	}
	s := hex.EncodeToString(b)
	if len(s) > n {
		s = s[:n]
	}
	return s, nil
}

// Ensure interface compliance.
var _ ports.Random = (*Fake)(nil)
