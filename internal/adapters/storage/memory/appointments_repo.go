package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"pawsera/internal/domain/appointments"
	"pawsera/internal/platform/apperr"
)

type appointmentRepo struct {
	mu   sync.RWMutex
	byID map[string]appointments.Appointment
}

func NewAppointmentRepo() appointments.Repository {
	return &appointmentRepo{
		byID: make(map[string]appointments.Appointment),
	}
}

func (r *appointmentRepo) Create(ctx context.Context, a appointments.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		return errors.New("appointment id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return apperr.ErrConflict
	}
	r.byID[a.ID] = a
	return nil
}

func (r *appointmentRepo) Update(ctx context.Context, a appointments.Appointment, from appointments.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, exists := r.byID[a.ID]
	if !exists {
		return apperr.ErrNotFound
	}
	if cur.Status != from {
		return fmt.Errorf("%w: status is %s", apperr.ErrInvalidTransition, cur.Status)
	}
	r.byID[a.ID] = a
	return nil
}

func (r *appointmentRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return appointments.Appointment{}, apperr.ErrNotFound
	}
	return a, nil
}

func (r *appointmentRepo) List(ctx context.Context, f appointments.ListFilter) ([]appointments.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]appointments.Appointment, 0)
	for _, a := range r.byID {
		if f.OwnerID != "" && a.OwnerID != f.OwnerID {
			continue
		}
		if f.VetID != "" && a.VetID != f.VetID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Day != nil && a.Date.Format(appointments.DateLayout) != f.Day.Format(appointments.DateLayout) {
			continue
		}
		if f.From != nil && a.StartsAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !a.StartsAt.Before(*f.To) {
			continue
		}
		out = append(out, a)
	}

	appointments.SortByStart(out)
	return out, nil
}
