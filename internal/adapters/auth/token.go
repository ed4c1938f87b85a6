package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"conventionlist/internal/domain"
)

type jwtClaims struct {
	jwt.RegisteredClaims
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

type jwtManager struct {
	secret []byte
}

// NewJWTManager returns a token manager that signs and verifies HS256 JWTs
// with the given secret. It implements both domain.TokenIssuer and
// domain.TokenVerifier.
func NewJWTManager(secret string) *jwtManager {
	return &jwtManager{secret: []byte(secret)}
}

func (m *jwtManager) Issue(userID, email string, roles []string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Email: email,
		Roles: roles,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (m *jwtManager) Verify(tokenString string) (domain.Actor, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return domain.Actor{}, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return domain.Actor{}, fmt.Errorf("invalid token")
	}
	return domain.Actor{ID: claims.Subject, Roles: claims.Roles}, nil
}
