// Package auth provides JWT token generation/validation and password
// hashing for the habit tracker API.
//
// AUTHENTICATION FLOW:
//  1. POST /api/auth/register or /api/auth/login → server verifies
//     credentials and issues a JWT
//  2. The token is returned in the response body AND set as an HttpOnly
//     cookie, so both SPA fetch clients and cookie-based sessions work
//  3. On subsequent API calls, middleware validates the JWT and puts the
//     userID in the request context
//
// JWT is stateless — the server doesn't store session data. Everything
// needed (userID, expiry) is inside the signed token, and the HMAC
// signature ensures nobody can tamper with it without the secret key.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenIssuer is checked on validation so tokens minted by other apps
// sharing a secret (it happens) are rejected.
const tokenIssuer = "habit-tracker"

// DefaultTokenTTL is how long an issued token stays valid. A habit app is
// low-risk and has no refresh-token flow, so a week keeps users logged in
// across daily check-ins.
const DefaultTokenTTL = 7 * 24 * time.Hour

// TokenService handles JWT creation and validation. It holds the HMAC
// secret used to sign and verify tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production:
// JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret), ttl: DefaultTokenTTL}, nil
}

// claims embeds jwt.RegisteredClaims; the "sub" (Subject) claim carries the
// internal user ID.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a JWT for the given userID using the default
// lifetime.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, s.ttl)
}

// GenerateWithDuration creates a token with a custom expiry. Used by tests
// to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string, returning the userID from the
// "sub" claim.
//
// WithValidMethods pins the algorithm to HS256 — without it an attacker
// could attempt an algorithm-confusion attack (e.g. a token "signed" with
// "none").
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
