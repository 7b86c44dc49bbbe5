package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidCookie = errors.New("invalid session cookie")

type cookieClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// SignCookie wraps an opaque session token in an HS256 JWT so that a
// tampered cookie is rejected before the session table is consulted.
func SignCookie(secret, token string, expiresAt time.Time) (string, error) {
	now := time.Now().UTC()
	claims := cookieClaims{
		SessionID: token,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseCookie verifies value and returns the session token it carries.
func ParseCookie(secret, value string) (string, error) {
	if value == "" {
		return "", ErrInvalidCookie
	}
	token, err := jwt.ParseWithClaims(value, &cookieClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", errors.Join(ErrInvalidCookie, err)
	}
	claims, ok := token.Claims.(*cookieClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return "", ErrInvalidCookie
	}
	return claims.SessionID, nil
}
