// Package auth issues and verifies session tokens and guards passwords.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenTTL is the fixed validity window of a session token.
	TokenTTL = 2400 * time.Second
	// TokenHeader carries the session token on authenticated requests.
	TokenHeader = "Auth-Token"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrEmptySecret  = errors.New("token signing secret is required")
)

// Identity is the authenticated caller decoded from a token.
type Identity struct {
	UserID string
}

// SessionUser is the user object embedded in token claims.
type SessionUser struct {
	ID string `json:"id"`
}

// Claims is the token payload: {"user": {"id": ...}} plus registered claims.
type Claims struct {
	User SessionUser `json:"user"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 session tokens with an immutable secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type TokenOption func(*TokenService)

// WithClock replaces the wall clock, mainly for simulated time in tests.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

func NewTokenService(secret string, opts ...TokenOption) (*TokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrEmptySecret
	}
	s := &TokenService{
		secret: []byte(secret),
		ttl:    TokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue creates a token for userID valid for TokenTTL from now.
func (s *TokenService) Issue(userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("issue token: user id is required")
	}
	// NumericDate has second precision; truncating keeps exp-iat at exactly ttl.
	now := s.now().Truncate(time.Second)
	claims := &Claims{
		User: SessionUser{ID: userID},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded identity.
func (s *TokenService) Verify(tokenString string) (Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.User.ID == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: claims.User.ID}, nil
}
