// Package auth isolates the credential and session-token schemes behind the
// identity service so either can be swapped without touching callers.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"thesisarchive/internal/common"
)

// Claims includes the registered JWT claims plus the session row identifier.
// A token is only accepted if it verifies AND its session row still exists,
// so logout revokes tokens before their signed expiry.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string
}

// GenerateSessionToken signs an HS256 token that references the given
// session and expires at expiresAt.
func GenerateSessionToken(sessionID string, secretKey []byte, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		SessionID: sessionID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetSessionIDFromToken verifies the token signature and expiry and returns
// the embedded session id. Expired tokens yield common.ErrTokenExpired;
// any other defect yields common.ErrInvalidToken.
func GetSessionIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.SessionID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.SessionID, nil
}
