// Package random provides Random implementations. The tracking engine mints
// visitor session keys from this source.
package random

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
)

// Real uses crypto/rand for secure randomness.
type Real struct{}

// Bytes generates n cryptographically secure random bytes.
func (Real) Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("read random: %w", err)
	}
	return b, nil
}

// Token generates a hex token from n random bytes (2n hex characters).
func (r Real) Token(n int) (string, error) {
	b, err := r.Bytes(n)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Fake provides deterministic randomness for testing. Each call yields a
// distinct value derived from an incrementing counter, so minted tokens
// never collide within a test.
type Fake struct {
	mu      sync.Mutex
	counter byte
}

// NewFake creates a fake random source.
func NewFake() *Fake {
	return &Fake{}
}

// Bytes returns deterministic bytes: the counter value repeated.
func (f *Fake) Bytes(n int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counter++
	b := make([]byte, n)
	for i := range b {
		b[i] = f.counter
	}
	return b, nil
}

// Token returns a deterministic hex token.
func (f *Fake) Token(n int) (string, error) {
	b, err := f.Bytes(n)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
