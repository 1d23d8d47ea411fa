// Package auth issues and verifies host session tokens. Events are run
// from a shared screen, so there is a single host role protected by a
// passcode rather than per-user accounts.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// RoleHost is the only role tokens carry
const RoleHost = "host"

var (
	// ErrInvalidPasscode is returned when the passcode does not match
	ErrInvalidPasscode = errors.New("invalid passcode")

	// ErrInvalidToken is returned for expired, malformed or forged tokens
	ErrInvalidToken = errors.New("invalid token")
)

// Claims carries the host session claims
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueHostToken creates a signed host session token valid for ttl
func IssueHostToken(secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: RoleHost,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// VerifyHostToken parses and validates a host session token
func VerifyHostToken(secret []byte, tokenString string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.Role != RoleHost {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// CheckPasscode compares a plaintext passcode against its bcrypt hash
func CheckPasscode(hash, passcode string) error {
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(passcode)) != nil {
		return ErrInvalidPasscode
	}
	return nil
}

// HashPasscode produces a bcrypt hash suitable for configuration
func HashPasscode(passcode string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash passcode: %w", err)
	}
	return string(hash), nil
}
