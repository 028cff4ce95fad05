package client

import (
	"context"
	"sync"
)

// TokenProvider supplies the bearer token for Partner Center calls.
// Token acquisition and refresh belong to the implementation; the client
// asks for a token on every attempt.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed access token.
type StaticToken string

// Token returns the token, or ErrNoToken if it is empty.
func (s StaticToken) Token(ctx context.Context) (string, error) {
	if s == "" {
		return "", ErrNoToken
	}
	return string(s), nil
}

// TokenFunc adapts a function to TokenProvider.
type TokenFunc func(ctx context.Context) (string, error)

// Token calls f(ctx).
func (f TokenFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// MutableToken is a TokenProvider whose token can be swapped at runtime,
// e.g. by a background refresher.
type MutableToken struct {
	mu    sync.RWMutex
	token string
}

// Set replaces the current token.
func (m *MutableToken) Set(token string) {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
}

// Token returns the current token, or ErrNoToken if none was set.
func (m *MutableToken) Token(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == "" {
		return "", ErrNoToken
	}
	return m.token, nil
}
