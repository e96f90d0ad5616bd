package pets

import "context"

type Repository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Pet, error)
	// ListByOwner con ownerID vacío devuelve todas. Orden: created_at ascendente.
	ListByOwner(ctx context.Context, ownerID string) ([]Pet, error)
}
