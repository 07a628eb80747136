// Package auth mints and verifies the HS256 access tokens used by the
// entity store API.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ourunion/unionhub/internal/common"
)

// Claims carries the account id and admin flag beside the registered set.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string
	IsAdmin   bool
}

func GenerateToken(accountID string, isAdmin bool, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		AccountID: accountID,
		IsAdmin:   isAdmin,
	})

	return token.SignedString(secretKey)
}

// ParseToken verifies signature and expiry and returns the claims.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
