// Package auth issues and checks the HS256 access tokens of the reference
// backend.
package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/useradmin/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the standard claims only: sub is the account name and jti
// identifies the token for revocation.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenManager signs tokens and tracks revoked ids until they expire.
type TokenManager struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewTokenManager(secret []byte, validity time.Duration) *TokenManager {
	return &TokenManager{
		secret:   secret,
		validity: validity,
		now:      time.Now,
		revoked:  make(map[string]time.Time),
	}
}

// Issue returns a signed token for subject.
func (m *TokenManager) Issue(subject string) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.validity)),
		},
	})

	s, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// Parse validates tokenString and returns its claims. Errors are
// common.ErrTokenExpired, common.ErrTokenRevoked or common.ErrInvalidToken.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid || claims.ID == "" {
		return nil, common.ErrInvalidToken
	}

	if m.isRevoked(claims.ID) {
		return nil, common.ErrTokenRevoked
	}
	return claims, nil
}

// Revoke invalidates tokenString for the rest of its lifetime. Tokens that no
// longer parse are ignored.
func (m *TokenManager) Revoke(tokenString string) {
	claims, err := m.Parse(tokenString)
	if err != nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[claims.ID] = claims.ExpiresAt.Time
	m.sweepLocked()
}

func (m *TokenManager) isRevoked(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[id]
	return ok
}

// sweepLocked drops revocations whose tokens expired anyway.
func (m *TokenManager) sweepLocked() {
	now := m.now()
	for id, exp := range m.revoked {
		if now.After(exp) {
			delete(m.revoked, id)
		}
	}
}

// Validity is the lifetime of issued tokens.
func (m *TokenManager) Validity() time.Duration {
	return m.validity
}
