package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/constants"
)

// AuthTokenWrapper is the identity carried by a bearer token.
type AuthTokenWrapper struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

func GenerateAuthToken(token *AuthTokenWrapper, secret string, ttl time.Duration) (string, error) {
	if token.ExpiresAt == 0 && ttl > 0 {
		token.ExpiresAt = time.Now().Add(ttl).Unix()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, token).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign auth token: %w", err)
	}

	return signed, nil
}

func ParseAuthToken(raw string, secret string) (*AuthTokenWrapper, error) {
	claims := new(AuthTokenWrapper)
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, constants.ErrInvalidToken
	}

	if claims.UserID <= 0 {
		return nil, constants.ErrInvalidToken
	}
	if claims.Role != constants.RoleDoctor && claims.Role != constants.RoleAdmin {
		return nil, constants.ErrInvalidToken
	}

	return claims, nil
}
