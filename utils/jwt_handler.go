package utils

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const TOKEN_TTL = 24 * time.Hour

var ErrMissingSecret = errors.New("JWT_SECRET is not set")

type TokenClaims struct {
	Role     string `json:"role"`
	Email    string `json:"email"`
	ClientID string `json:"client_id,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for the user identified by subject.
func IssueToken(subject, role, email, clientID string, now time.Time) (string, TokenClaims, error) {
	secret := os.Getenv(JWT_SECRET)
	if secret == "" {
		return "", TokenClaims{}, ErrMissingSecret
	}

	claims := TokenClaims{
		Role:     role,
		Email:    email,
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TOKEN_TTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", TokenClaims{}, fmt.Errorf("signing token: %w", err)
	}

	return signed, claims, nil
}

// ParseToken verifies signature and expiry and returns the claims.
func ParseToken(raw string) (*TokenClaims, error) {
	secret := os.Getenv(JWT_SECRET)
	if secret == "" {
		return nil, ErrMissingSecret
	}

	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
