package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

var (
	// ErrEmptyPassword is returned when attempting to hash an empty password.
	ErrEmptyPassword = errors.New("password cannot be empty")
	// ErrPasswordTooLong is returned for passwords over MaxPasswordBytes.
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
)

// PasswordGuard hashes and verifies account passwords.
type PasswordGuard interface {
	// Hash derives a salted hash; two calls with the same input differ.
	Hash(password string) (string, error)
	// Verify reports whether password matches hash. Mismatches and
	// malformed hashes both yield false.
	Verify(password, hash string) bool
}

// BcryptGuard implements PasswordGuard with bcrypt.
type BcryptGuard struct {
	cost int
}

// NewBcryptGuard falls back to bcrypt.DefaultCost when cost is out of range.
func NewBcryptGuard(cost int) *BcryptGuard {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptGuard{cost: cost}
}

func (g *BcryptGuard) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), g.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (g *BcryptGuard) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
