package utils // package utils provides token helpers shared by the HTTP layer and tests

import (
	"crypto/rand"  // secure random data for guest session ids
	"encoding/hex" // hex encoding for opaque ids
	"time"         // expiration arithmetic

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// NewAccessToken builds and signs an HS256 JWT for a registered user.  Real
// tokens are minted by the external auth service; this helper exists for
// operational tooling and tests that need to exercise authenticated
// endpoints against the shared secret.  The JWT carries the standard
// subject (sub), expiration (exp) and issued at (iat) claims.
func NewAccessToken(secret, userID string, ttlMin int) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": now.Add(time.Duration(ttlMin) * time.Minute).Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// NewGuestSessionID mints the opaque id a guest presents in the
// X-Guest-Session header.  24 random bytes, hex encoded: long enough that
// guessing another guest's session is not practical.
func NewGuestSessionID() (string, error) {
	return randomHex(24)
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
