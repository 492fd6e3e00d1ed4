package service

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// Generator produces passcodes and session identifiers. It is an interface so
// tests can pin the values the auth service works with.
type Generator interface {
	// Code returns a 6-digit numeric string uniform over [100000, 999999]
	Code() (string, error)
	// SessionID returns an opaque identifier unique for the process lifetime
	SessionID() string
}

// cryptoGenerator draws codes from crypto/rand and session ids from UUIDv4,
// so neither is guessable from timing or sequence.
type cryptoGenerator struct{}

// NewGenerator returns the production Generator
func NewGenerator() Generator {
	return cryptoGenerator{}
}

// Code returns a 6-digit numeric string uniform over [100000, 999999]
func (cryptoGenerator) Code() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to draw random code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// SessionID returns a fresh UUIDv4 string (122 bits of randomness)
func (cryptoGenerator) SessionID() string {
	return uuid.NewString()
}
