package memory

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"

	"pawsera/internal/domain/roles"
	"pawsera/internal/domain/users"
	"pawsera/internal/platform/apperr"
)

type userRepo struct {
	mu      sync.RWMutex
	byID    map[string]users.User
	byEmail map[string]string // email -> id
}

func NewUserRepo() users.Repository {
	return &userRepo{
		byID:    make(map[string]users.User),
		byEmail: make(map[string]string),
	}
}

func (r *userRepo) Create(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(u.ID) == "" {
		return errors.New("user id required")
	}
	if _, exists := r.byID[u.ID]; exists {
		return apperr.ErrConflict
	}
	if _, exists := r.byEmail[u.Email]; exists {
		return apperr.ErrConflict
	}
	r.byID[u.ID] = cloneUser(u)
	r.byEmail[u.Email] = u.ID
	return nil
}

// Update pisa solo el perfil; email, rol, estado y revisión quedan como estaban.
func (r *userRepo) Update(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, exists := r.byID[u.ID]
	if !exists {
		return apperr.ErrNotFound
	}
	u.Email = prev.Email
	u.Role = prev.Role
	u.Status = prev.Status
	u.ReviewedBy = prev.ReviewedBy
	u.ApprovedAt = prev.ApprovedAt
	u.DeniedAt = prev.DeniedAt
	u.CreatedAt = prev.CreatedAt
	r.byID[u.ID] = cloneUser(u)
	return nil
}

func (r *userRepo) UpdateStatus(ctx context.Context, u users.User, from roles.VetStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, exists := r.byID[u.ID]
	if !exists {
		return apperr.ErrNotFound
	}
	if cur.Status != from {
		return fmt.Errorf("%w: vet is %s", apperr.ErrInvalidTransition, cur.Status)
	}
	cur.Status = u.Status
	cur.ReviewedBy = u.ReviewedBy
	cur.ApprovedAt = u.ApprovedAt
	cur.DeniedAt = u.DeniedAt
	cur.UpdatedAt = u.UpdatedAt
	r.byID[u.ID] = cur
	return nil
}

// cloneUser copia los mapas de preferencias para no compartirlos con el caller.
func cloneUser(u users.User) users.User {
	u.Availability = maps.Clone(u.Availability)
	u.Notifications = maps.Clone(u.Notifications)
	return u
}

func (r *userRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return users.User{}, apperr.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return users.User{}, apperr.ErrNotFound
	}
	return cloneUser(r.byID[id]), nil
}

func (r *userRepo) List(ctx context.Context, filter users.ListFilter) ([]users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(filter.Query))
	out := make([]users.User, 0)
	for _, u := range r.byID {
		if filter.Role != "" && string(u.Role) != filter.Role {
			continue
		}
		if filter.Status != "" && string(u.Status) != filter.Status {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(u.Name+" "+u.Email), q) {
			continue
		}
		out = append(out, cloneUser(u))
	}

	// Más recientes primero
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
