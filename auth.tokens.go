package main

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var _ TokenHandler = (*JWTHandler)(nil) // ensure JWTHandler implements TokenHandler.

// Claims is the payload carried by an issued credential.
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

// TokenHandler issues and verifies caller credentials.
type TokenHandler interface {
	Issue(user User) (string, error)
	Verify(tokenStr string) (*Claims, error)
}

// JWTHandler implements TokenHandler with HS256 signed tokens.
type JWTHandler struct {
	secret []byte
	ttl    time.Duration
	clock  Clocker
}

// NewJWTHandler provides a ready to use JWTHandler.
func NewJWTHandler(config *AuthConfig, clock Clocker) *JWTHandler {
	return &JWTHandler{
		secret: []byte(config.JWTSecret),
		ttl:    config.TokenTTL,
		clock:  clock,
	}
}

// Issue signs a time-bounded credential carrying the user identity and role.
func (jh *JWTHandler) Issue(user User) (string, error) {
	now := jh.clock.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(jh.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jh.secret)
}

// Verify parses and validates a credential string and returns its claims.
func (jh *JWTHandler) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return jh.secret, nil
	}, jwt.WithTimeFunc(jh.clock.Now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// AsCaller converts verified claims into the request caller identity.
func (c *Claims) AsCaller() Caller {
	return Caller{ID: c.UserID, Username: c.Username, Role: c.Role}
}
