package users

import (
	"context"

	"pawsera/internal/domain/roles"
)

type Repository interface {
	// Create devuelve apperr.ErrConflict si el email ya existe.
	Create(ctx context.Context, u User) error
	// Update persiste el perfil. No toca email, rol, estado ni datos de revisión.
	Update(ctx context.Context, u User) error
	// UpdateStatus escribe estado y revisión solo si el estado guardado sigue
	// siendo from; si no, ErrInvalidTransition.
	UpdateStatus(ctx context.Context, u User, from roles.VetStatus) error
	GetByID(ctx context.Context, id string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	// List ordena por created_at descendente.
	List(ctx context.Context, filter ListFilter) ([]User, error)
}

type ListFilter struct {
	Role   string
	Status string
	Query  string // substring en nombre/email
}
