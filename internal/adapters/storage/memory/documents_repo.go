package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pawsera/internal/domain/documents"
	"pawsera/internal/platform/apperr"
)

type documentRepo struct {
	mu   sync.RWMutex
	byID map[string]documents.Document
}

func NewDocumentRepo() documents.Repository {
	return &documentRepo{
		byID: make(map[string]documents.Document),
	}
}

func (r *documentRepo) Create(ctx context.Context, d documents.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.ID == "" {
		return errors.New("document id required")
	}
	if _, exists := r.byID[d.ID]; exists {
		return apperr.ErrConflict
	}
	r.byID[d.ID] = d
	return nil
}

func (r *documentRepo) ListByPet(ctx context.Context, petID string) ([]documents.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]documents.Document, 0)
	for _, d := range r.byID {
		if d.PetID == petID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out, nil
}
