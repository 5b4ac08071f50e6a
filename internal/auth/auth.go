// Package auth issues and verifies the session tokens that gate the
// private market-data endpoints. Clients exchange the shared API key
// for a short-lived JWT; the key itself is only ever stored as a
// bcrypt hash.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Service handles API-key login and token verification.
type Service struct {
	secret  []byte
	keyHash []byte
	ttl     time.Duration
}

// NewService creates an auth service. secret signs tokens, keyHash is
// the bcrypt hash of the accepted API key.
func NewService(secret, keyHash string, ttl time.Duration) *Service {
	return &Service{
		secret:  []byte(secret),
		keyHash: []byte(keyHash),
		ttl:     ttl,
	}
}

// HashKey bcrypt-hashes an API key, for provisioning configuration.
func HashKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login verifies the presented API key and returns a signed JWT.
func (s *Service) Login(apiKey string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(s.keyHash, []byte(apiKey)); err != nil {
		return "", fmt.Errorf("invalid api key")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "market-data",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(s.ttl).Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its subject.
func (s *Service) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	sub, _ := claims["sub"].(string)
	return sub, nil
}
