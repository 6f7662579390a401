// Package identity adapts the external identity provider. The provider's
// transport (Cognito, OAuth, ...) is out of scope here; this process receives
// an access token via configuration and hands it to API callers.
package identity

import (
	"context"
	"errors"
	"sync"
)

var ErrSessionInvalid = errors.New("error identity session invalid")

type StaticProvider struct {
	mu    sync.RWMutex
	token string
}

func NewStaticProvider(accessToken string) *StaticProvider {
	return &StaticProvider{token: accessToken}
}

// CurrentToken returns the bearer token for the active session, or
// ErrSessionInvalid when none is held.
func (p *StaticProvider) CurrentToken(_ context.Context) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.token == "" {
		return "", ErrSessionInvalid
	}
	return p.token, nil
}

// SetToken installs a fresh token, e.g. after a re-authentication.
func (p *StaticProvider) SetToken(token string) {
	p.mu.Lock()
	p.token = token
	p.mu.Unlock()
}

// SignOut invalidates the held token.
func (p *StaticProvider) SignOut(_ context.Context) error {
	p.mu.Lock()
	p.token = ""
	p.mu.Unlock()
	return nil
}
