// Package auth signs and verifies the session cookie.
//
// Session state itself lives server-side in the session store; the cookie
// only names a session. Signing the session ID into an HS256 JWT makes the
// cookie tamper-evident: a client cannot forge or increment its way into
// another session ID.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionTokenTTL bounds how long a browser session cookie stays valid.
// The server-side session row outlives nothing past this.
const sessionTokenTTL = 30 * 24 * time.Hour

// TokenService handles creation and validation of signed session cookies.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims embeds jwt.RegisteredClaims; the Subject claim carries the
// session ID.
type claims struct {
	jwt.RegisteredClaims
}

// Generate signs a cookie value for the given session ID.
func (s *TokenService) Generate(sessionID string) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTokenTTL)),
			Issuer:    "tierlist",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing session token: %w", err)
	}

	return signed, nil
}

// Validate checks the signature and expiry of a cookie value and returns
// the session ID it names.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	var c claims

	token, err := jwt.ParseWithClaims(tokenStr, &c, func(t *jwt.Token) (interface{}, error) {
		// Reject any token not signed with our HMAC method. Without this
		// check an attacker could present an alg=none token.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("auth: parsing session token: %w", err)
	}
	if !token.Valid || c.Subject == "" {
		return "", errors.New("auth: invalid session token")
	}

	return c.Subject, nil
}
