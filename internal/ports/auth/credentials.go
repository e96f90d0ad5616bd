package auth

import (
	"context"
	"time"
)

// Credential es lo que guarda el proveedor local: email + hash bcrypt.
type Credential struct {
	UserID       string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// CredentialStore devuelve apperr.ErrConflict si el email ya existe y
// apperr.ErrNotFound si no hay credencial para el email.
type CredentialStore interface {
	Create(ctx context.Context, c Credential) error
	GetByEmail(ctx context.Context, email string) (Credential, error)
}
