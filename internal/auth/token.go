// Package auth holds the bearer credential and a small TTL response cache.
// Both are pure in-memory state; nothing here performs I/O.
package auth

import (
	"sync"

	"github.com/rezonia/fne-client/internal/model"
)

// DefaultMinTokenLength is the minimum accepted bearer token length
const DefaultMinTokenLength = 20

// TokenManager holds exactly zero or one bearer credential. Reads are safe to
// share; writes happen through SetToken/ClearToken only.
type TokenManager struct {
	mu        sync.RWMutex
	token     string
	minLength int
}

// NewTokenManager creates an empty manager. A minLength of 0 selects
// DefaultMinTokenLength.
func NewTokenManager(minLength int) *TokenManager {
	if minLength <= 0 {
		minLength = DefaultMinTokenLength
	}
	return &TokenManager{minLength: minLength}
}

// SetToken stores the bearer credential
func (m *TokenManager) SetToken(token string) {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
}

// ClearToken removes the stored credential
func (m *TokenManager) ClearToken() {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
}

// HasToken reports whether a credential is set
func (m *TokenManager) HasToken() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != ""
}

// Token returns the stored credential, or an AuthError when unset
func (m *TokenManager) Token() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == "" {
		return "", model.NewAuthError(model.AuthMissingToken, "no API token configured")
	}
	return m.token, nil
}

// Validate checks that a credential is set and meets the minimum length
func (m *TokenManager) Validate() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == "" {
		return model.NewAuthError(model.AuthMissingToken, "no API token configured")
	}
	if len(m.token) < m.minLength {
		return model.NewAuthError(model.AuthTokenTooShort, "API token is shorter than the required minimum")
	}
	return nil
}
