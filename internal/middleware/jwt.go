package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
	"github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers
)

var errNoBearer = errors.New("no bearer token")

// bearerUserID extracts and validates the Bearer token from the request and
// returns the user id from its subject claim.  Identity issuance lives
// outside this service; tokens arriving here were minted elsewhere with the
// shared secret.  errNoBearer is returned when the header is absent so the
// caller can fall through to guest handling; any other error means a token
// was presented and is invalid.
func bearerUserID(c echo.Context, secret string) (string, error) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", errNoBearer
	}
	if secret == "" {
		return "", errors.New("token auth disabled")
	}
	raw := strings.TrimPrefix(auth, "Bearer ")

	// Parse with HS256 and the shared secret; any other signing method is
	// rejected.
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", errors.New("invalid token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub, nil
	}
	if uid, ok := claims["user_id"].(string); ok && uid != "" {
		return uid, nil
	}
	return "", errors.New("token has no subject")
}
