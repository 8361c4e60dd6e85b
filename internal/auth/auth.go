package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// TokenVerifier checks presented bearer tokens against a stored bcrypt hash.
// Verification never compares plaintext; bcrypt's hash comparison is
// timing-safe. A valid token stays valid for the process lifetime.
type TokenVerifier struct {
	hash []byte
}

// NewTokenVerifier validates that hash is a usable bcrypt hash and returns
// the verifier. A malformed hash is a startup error, not a per-request one.
func NewTokenVerifier(hash string) (*TokenVerifier, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("invalid token hash: %w", err)
	}
	return &TokenVerifier{hash: []byte(hash)}, nil
}

// Verify reports whether the presented token matches the stored hash.
func (v *TokenVerifier) Verify(token string) bool {
	return bcrypt.CompareHashAndPassword(v.hash, []byte(token)) == nil
}
