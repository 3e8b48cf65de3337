package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the data contract carried by an auth token.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenSigner issues and verifies bearer tokens for authenticated users.
type TokenSigner interface {
	Sign(userID, email, role string) (string, error)
	Verify(token string) (*Claims, error)
}

type jwtSigner struct {
	secret []byte
	expiry time.Duration
}

func NewJWTSigner(secret string, expiry time.Duration) (TokenSigner, error) {
	if secret == "" {
		return nil, errors.New("signing secret cannot be empty")
	}
	if expiry <= 0 {
		return nil, fmt.Errorf("expiry must be positive, got: %s", expiry)
	}
	return &jwtSigner{secret: []byte(secret), expiry: expiry}, nil
}

func (s *jwtSigner) Sign(userID, email, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *jwtSigner) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
