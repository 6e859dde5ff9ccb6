package pkg

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload of a login session token.
type SessionClaims struct {
	AccountID uint   `json:"account_id"`
	Role      string `json:"role"`
	GroupID   uint   `json:"group_id,omitempty"`
	jwt.RegisteredClaims
}

func secret() ([]byte, error) {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s), nil
	}
	return nil, errors.New("missing JWT_SECRET")
}

// CreateToken issues a signed session JWT for an account.
func CreateToken(accountID uint, role string, groupID uint) (string, error) {
	sec, err := secret()
	if err != nil {
		return "", err
	}
	claims := SessionClaims{
		AccountID: accountID,
		Role:      role,
		GroupID:   groupID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(72 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(sec)
}

// VerifyToken parses and validates a session JWT.
func VerifyToken(tokenStr string) (*SessionClaims, error) {
	sec, err := secret()
	if err != nil {
		return nil, err
	}
	parsed, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return sec, nil
	})
	if err != nil || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || claims.AccountID == 0 {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}
