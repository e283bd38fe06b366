// Package auth — password hashing utilities.
//
// WHY BCRYPT?
// bcrypt is a password hashing function designed to be slow, which makes
// brute-force attacks expensive. It generates a random salt per hash and
// embeds it in the output, so no separate salt column is needed. Never
// store passwords in plain text or with fast hashes (MD5, SHA-256).
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor. Cost 12 takes roughly ~250ms on a
// modern server — negligible for login, brutal for attackers.
const defaultCost = 12

// MinPasswordLength is enforced at registration.
const MinPasswordLength = 6

// PasswordService provides bcrypt hashing and verification.
//
// It's a struct (not free functions) so the cost can be injected in tests —
// cost 4 makes tests fast without changing the logic under test.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the default cost (12).
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest creates a PasswordService with a low bcrypt
// cost. Do NOT use in production.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash hashes the given plaintext password with bcrypt. The output string
// is self-contained (version, cost, salt, hash) — store it directly.
//
// Returns an error for passwords longer than 72 bytes: bcrypt silently
// truncates beyond that, so we reject instead.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", errors.New("auth: password must be 72 bytes or fewer")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hash), nil
}

// Verify reports whether plaintext matches the stored bcrypt hash.
// A mismatch is NOT an error — it returns (false, nil). Errors are reserved
// for malformed hashes.
func (p *PasswordService) Verify(hash, plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, fmt.Errorf("auth: comparing password: %w", err)
	}
	return true, nil
}
