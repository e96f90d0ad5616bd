package appointments

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, a Appointment) error
	// Update escribe a solo si el estado guardado sigue siendo from.
	// Si cambió en el medio devuelve ErrInvalidTransition.
	Update(ctx context.Context, a Appointment, from Status) error
	GetByID(ctx context.Context, id string) (Appointment, error)
	// List ordena por starts_at ascendente y desempata por created_at.
	List(ctx context.Context, filter ListFilter) ([]Appointment, error)
}

// ListFilter: campos vacíos = sin filtro.
type ListFilter struct {
	OwnerID string
	VetID   string
	Status  Status
	Day     *time.Time // compara solo la fecha
	From    *time.Time // starts_at >= From
	To      *time.Time // starts_at < To
}
