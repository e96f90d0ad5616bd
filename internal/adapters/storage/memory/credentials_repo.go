package memory

import (
	"context"
	"sync"

	"pawsera/internal/platform/apperr"
	"pawsera/internal/ports/auth"
)

type credentialRepo struct {
	mu      sync.RWMutex
	byEmail map[string]auth.Credential
}

func NewCredentialRepo() auth.CredentialStore {
	return &credentialRepo{
		byEmail: make(map[string]auth.Credential),
	}
}

func (r *credentialRepo) Create(ctx context.Context, c auth.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[c.Email]; exists {
		return apperr.ErrConflict
	}
	r.byEmail[c.Email] = c
	return nil
}

func (r *credentialRepo) GetByEmail(ctx context.Context, email string) (auth.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byEmail[email]
	if !ok {
		return auth.Credential{}, apperr.ErrNotFound
	}
	return c, nil
}
