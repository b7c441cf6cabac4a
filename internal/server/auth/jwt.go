// Package auth issues and verifies the signed tokens returned by login.
// Tokens are HS256-signed and embed the account id, username, and email.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken marks a token that failed signature or claims checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims extends the registered JWT claims with the account identity
// embedded at login time.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
}

// GenerateToken signs a token for the given account identity with the given
// validity window.
func GenerateToken(accountID, username, email string, secretKey []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		AccountID: accountID,
		Username:  username,
		Email:     email,
	})

	return token.SignedString(secretKey)
}

// ParseToken verifies tokenString and returns its claims.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
