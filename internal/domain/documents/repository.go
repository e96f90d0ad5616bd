package documents

import "context"

type Repository interface {
	Create(ctx context.Context, d Document) error
	// ListByPet ordena por uploaded_at descendente.
	ListByPet(ctx context.Context, petID string) ([]Document, error)
}
