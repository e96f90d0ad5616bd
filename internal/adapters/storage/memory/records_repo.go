package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pawsera/internal/domain/records"
	"pawsera/internal/platform/apperr"
)

type recordRepo struct {
	mu   sync.RWMutex
	byID map[string]records.MedicalRecord
}

func NewRecordRepo() records.Repository {
	return &recordRepo{
		byID: make(map[string]records.MedicalRecord),
	}
}

func (r *recordRepo) Create(ctx context.Context, m records.MedicalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.ID == "" {
		return errors.New("record id required")
	}
	if _, exists := r.byID[m.ID]; exists {
		return apperr.ErrConflict
	}

	r.byID[m.ID] = m
	return nil
}

func (r *recordRepo) ListByPet(ctx context.Context, petID string, filter records.ListFilter) ([]records.MedicalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filter = filter.Normalize()
	out := make([]records.MedicalRecord, 0)

	for _, m := range r.byID {
		if m.PetID != petID {
			continue
		}

		// Type filter
		if len(filter.Types) > 0 {
			ok := false
			for _, t := range filter.Types {
				if m.Type == t {
					ok = true
					break
				}
			}
			if !ok {
				continue
			}
		}

		// Date filters (inclusive)
		if filter.From != nil && m.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.Date.After(*filter.To) {
			continue
		}

		// Query filter
		if q := strings.TrimSpace(filter.Query); q != "" {
			hay := strings.ToLower(m.Title + " " + m.Doctor + " " + m.Description)
			if !strings.Contains(hay, strings.ToLower(q)) {
				continue
			}
		}

		out = append(out, m)
	}

	// Más reciente primero; a igual fecha, el último cargado primero.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Date.After(out[j].Date)
	})

	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}

	return out, nil
}
