package records

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, m MedicalRecord) error
	// ListByPet ordena por date descendente (más reciente primero).
	ListByPet(ctx context.Context, petID string, filter ListFilter) ([]MedicalRecord, error)
}

type ListFilter struct {
	Types []Type
	From  *time.Time
	To    *time.Time
	Query string
	Limit int
}

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Normalize acota Limit a [1,MaxLimit].
func (f ListFilter) Normalize() ListFilter {
	if f.Limit <= 0 || f.Limit > MaxLimit {
		f.Limit = DefaultLimit
	}
	return f
}
