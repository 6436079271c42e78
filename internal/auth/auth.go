// Package auth validates bearer credentials and issues the short-lived
// tokens peers present when opening the signaling connection.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/arslan3373/client-doctor-project/internal/domain"
)

// Claims carries the identity resolved from a bearer credential. SessionID
// is only present on join tokens, which scope the holder to one call.
type Claims struct {
	UserID    string      `json:"userId"`
	Role      domain.Role `json:"role"`
	SessionID string      `json:"sessionId,omitempty"`
	jwt.RegisteredClaims
}

// Verifier resolves a bearer credential into identity claims. Credentials
// are issued by the platform's auth service; this core only validates them.
type Verifier interface {
	Verify(token string) (*Claims, error)
}

// TokenManager is the HMAC JWT implementation of Verifier. It shares the
// signing secret with the platform's auth service.
type TokenManager struct {
	secret  []byte
	joinTTL time.Duration
}

func NewTokenManager(secret string, joinTTL time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), joinTTL: joinTTL}
}

// Verify parses and validates a bearer token.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}
	return claims, nil
}

// IssueJoinToken signs a short-lived token scoping the caller to one
// session. Peers present it when opening the real-time connection.
func (m *TokenManager) IssueJoinToken(userID domain.UserID, sessionID domain.SessionID, role domain.Role) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    string(userID),
		Role:      role,
		SessionID: string(sessionID),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.joinTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign join token: %w", err)
	}
	return signed, nil
}
