package oauth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// StateTTL bounds how long an install link stays valid.
const StateTTL = 10 * time.Minute

// ErrInvalidState is returned for a state parameter that was not issued by
// this server or has expired.
var ErrInvalidState = errors.New("invalid oauth state")

// NewState issues a signed, expiring state parameter.
func NewState(secret string, now time.Time) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("state secret is required")
	}
	now = now.UTC()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(StateTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing state: %w", err)
	}
	return signed, nil
}

// VerifyState checks a state parameter issued by NewState.
func VerifyState(secret, state string, now time.Time) error {
	if state == "" {
		return fmt.Errorf("%w: missing", ErrInvalidState)
	}
	_, err := jwt.ParseWithClaims(state, &jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return nil
}
