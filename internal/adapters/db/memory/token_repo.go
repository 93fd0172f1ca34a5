package memory

import (
	"context"
	"sync"

	customErrors "github.com/pmelnyk/currency-service/internal/domain/errors"
)

// TokenRepo is an in-process live set for single-instance deployments and
// tests. One mutex guards membership so concurrent issue/verify/revoke
// observe a consistent set.
type TokenRepo struct {
	mu   sync.Mutex
	live map[string]struct{}
}

func NewTokenRepo() *TokenRepo {
	return &TokenRepo{live: make(map[string]struct{})}
}

func (m *TokenRepo) Store(_ context.Context, jti string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.live[jti] = struct{}{}
	return nil
}

func (m *TokenRepo) IsLive(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.live[jti]
	return ok, nil
}

func (m *TokenRepo) Revoke(_ context.Context, jti string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.live[jti]; !ok {
		return customErrors.ErrNotFound
	}
	delete(m.live, jti)
	return nil
}
