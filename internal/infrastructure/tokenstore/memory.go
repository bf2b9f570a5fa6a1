// Package tokenstore holds the in-process token store and the sealing
// decorator that encrypts tokens before they reach any store.
package tokenstore

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	token   string
	expires time.Time
}

// Memory is a ports.TokenStore for single-instance deployments and tests.
// Tokens do not survive a restart.
type Memory struct {
	mu     sync.Mutex
	tokens map[string]entry
	now    func() time.Time
}

func NewMemory() *Memory {
	return &Memory{tokens: make(map[string]entry), now: time.Now}
}

func (m *Memory) Load(_ context.Context, sessionID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.tokens[sessionID]
	if !ok {
		return "", nil
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.tokens, sessionID)
		return "", nil
	}
	return e.token, nil
}

func (m *Memory) Save(_ context.Context, sessionID, token string, ttl time.Duration) error {
	e := entry{token: token}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.tokens[sessionID] = e
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.tokens, sessionID)
	m.mu.Unlock()
	return nil
}
