package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentals-api/internal/auth"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTokenService(t *testing.T, secret string) (*auth.TokenService, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
	svc, err := auth.NewTokenService(secret, auth.WithClock(clock.Now))
	require.NoError(t, err)
	return svc, clock
}

func TestNewTokenService_RequiresSecret(t *testing.T) {
	_, err := auth.NewTokenService("  ")
	assert.ErrorIs(t, err, auth.ErrEmptySecret)
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc, clock := newTokenService(t, "s3cret")

	token, err := svc.Issue("user-42")
	require.NoError(t, err)

	t.Run("verifies right after issuance", func(t *testing.T) {
		id, err := svc.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "user-42", id.UserID)
	})

	t.Run("verifies until the last second of the window", func(t *testing.T) {
		clock.Advance(auth.TokenTTL - time.Second)
		id, err := svc.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "user-42", id.UserID)
	})

	t.Run("fails once the window has elapsed", func(t *testing.T) {
		clock.Advance(time.Second)
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestTokenService_PayloadShape(t *testing.T) {
	svc, clock := newTokenService(t, "s3cret")

	token, err := svc.Issue("user-7")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)

	user, ok := claims["user"].(map[string]any)
	require.True(t, ok, "user claim should be an object")
	assert.Equal(t, "user-7", user["id"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(2400*time.Second).Unix(), exp.Unix())
}

func TestTokenService_RejectsBadTokens(t *testing.T) {
	svc, clock := newTokenService(t, "s3cret")
	other, _ := newTokenService(t, "another-secret")

	foreign, err := other.Issue("user-1")
	require.NoError(t, err)

	own, err := svc.Issue("user-1")
	require.NoError(t, err)
	forged, err := svc.Issue("user-2")
	require.NoError(t, err)
	ownParts := strings.Split(own, ".")
	forgedParts := strings.Split(forged, ".")
	spliced := strings.Join([]string{ownParts[0], forgedParts[1], ownParts[2]}, ".")

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &auth.Claims{
		User: auth.SessionUser{ID: "user-1"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &auth.Claims{
		User: auth.SessionUser{ID: "user-1"},
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"signed with another secret", foreign},
		{"payload swapped", spliced},
		{"alg none", unsigned},
		{"no expiry", noExpiry},
		{"no user", noUser},
		{"malformed", "not-a-token"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}

func TestTokenService_SubSecondIssueKeepsFullWindow(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 14, 9, 0, 0, 900_000_000, time.UTC)}
	svc, err := auth.NewTokenService("s3cret", auth.WithClock(clock.Now))
	require.NoError(t, err)

	token, err := svc.Issue("user-9")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	iat, err := claims.GetIssuedAt()
	require.NoError(t, err)
	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.Equal(t, auth.TokenTTL, exp.Sub(iat.Time))

	issued := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	clock.now = issued.Add(auth.TokenTTL - time.Millisecond)
	_, err = svc.Verify(token)
	assert.NoError(t, err)

	clock.now = issued.Add(auth.TokenTTL)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenService_IssueRequiresUser(t *testing.T) {
	svc, _ := newTokenService(t, "s3cret")
	_, err := svc.Issue("")
	assert.Error(t, err)
}
