package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrWrongTokenType = errors.New("token type mismatch")

type Claims struct {
	Sub  string `json:"sub"` // user id
	Type string `json:"typ"` // access/refresh
	jwt.RegisteredClaims
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateToken signs an HS256 token of the given type for userID.
func GenerateToken(secret, userID, tokenType string, ttl time.Duration) (string, error) {
	jti, err := generateJTI()
	if err != nil {
		return "", err
	}

	now := time.Now()
	c := Claims{
		Sub:  userID,
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}

// ParseToken validates signature, expiry and the typ claim.
func ParseToken(secret, tokenStr, tokenType string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Type != tokenType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
