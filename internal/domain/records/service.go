package records

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pawsera/internal/domain/pets"
	"pawsera/internal/domain/roles"
	"pawsera/internal/platform/apperr"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	pets *pets.Service
	now  func() time.Time
}

func NewService(repo Repository, petsSvc *pets.Service) *Service {
	return &Service{
		repo: repo,
		pets: petsSvc,
		now:  time.Now,
	}
}

type CreateInput struct {
	Title       string
	Doctor      string
	Date        time.Time
	Type        string
	Description string
}

// Add: dueño de la mascota o admin.
func (s *Service) Add(ctx context.Context, actor roles.Actor, petID string, in CreateInput) (MedicalRecord, error) {
	p, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return MedicalRecord{}, err
	}
	if !actor.CanManage(p.OwnerID) {
		return MedicalRecord{}, apperr.ErrForbidden
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return MedicalRecord{}, fmt.Errorf("%w: title is required", apperr.ErrInvalidInput)
	}
	if in.Date.IsZero() {
		return MedicalRecord{}, fmt.Errorf("%w: date is required", apperr.ErrInvalidInput)
	}
	typ, ok := ParseType(in.Type)
	if !ok {
		return MedicalRecord{}, fmt.Errorf("%w: unknown record type %q", apperr.ErrInvalidInput, in.Type)
	}

	m := MedicalRecord{
		ID:          uuid.NewString(),
		PetID:       p.ID,
		OwnerID:     p.OwnerID,
		Title:       title,
		Doctor:      strings.TrimSpace(in.Doctor),
		Date:        in.Date,
		Type:        typ,
		Description: strings.TrimSpace(in.Description),
		CreatedBy:   actor.UserID,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return MedicalRecord{}, err
	}
	return m, nil
}

// ListByPet: dueño, admin o vet aprobado.
func (s *Service) ListByPet(ctx context.Context, actor roles.Actor, petID string, filter ListFilter) ([]MedicalRecord, error) {
	if _, err := s.pets.Get(ctx, actor, petID); err != nil {
		return nil, err
	}
	return s.repo.ListByPet(ctx, petID, filter.Normalize())
}
