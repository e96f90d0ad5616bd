package pets

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"pawsera/internal/domain/roles"
	"pawsera/internal/platform/apperr"
	"pawsera/internal/platform/degrade"
	"pawsera/internal/platform/logger"
	"pawsera/internal/ports/files"

	"github.com/google/uuid"
)

type Service struct {
	repo  Repository
	files files.Store
	log   logger.Logger
	now   func() time.Time

	fallback degrade.Policy
	sample   func() []Pet
}

func NewService(repo Repository, store files.Store) *Service {
	return &Service{
		repo:  repo,
		files: store,
		log:   logger.Nop(),
		now:   time.Now,
	}
}

func (s *Service) WithLogger(log logger.Logger) *Service {
	if log != nil {
		s.log = log
	}
	return s
}

type CreateInput struct {
	OwnerID   string // solo admin puede crear para otro dueño
	Name      string
	Species   string
	Breed     string
	Age       int
	Gender    string
	Weight    *float64
	Color     string
	Microchip string
	Notes     string
}

func (s *Service) Create(ctx context.Context, actor roles.Actor, in CreateInput) (Pet, error) {
	ownerID := actor.UserID
	switch actor.Role {
	case roles.PetOwner:
	case roles.Admin:
		if v := strings.TrimSpace(in.OwnerID); v != "" {
			ownerID = v
		}
	default:
		return Pet{}, apperr.ErrForbidden
	}
	if strings.TrimSpace(ownerID) == "" {
		return Pet{}, apperr.ErrInvalidInput
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Pet{}, fmt.Errorf("%w: name is required", apperr.ErrInvalidInput)
	}
	species, ok := ParseSpecies(in.Species)
	if !ok {
		return Pet{}, fmt.Errorf("%w: unknown species %q", apperr.ErrInvalidInput, in.Species)
	}
	gender, ok := ParseGender(in.Gender)
	if !ok {
		return Pet{}, fmt.Errorf("%w: unknown gender %q", apperr.ErrInvalidInput, in.Gender)
	}
	if err := validateNumbers(in.Age, in.Weight); err != nil {
		return Pet{}, err
	}

	now := s.now()
	p := Pet{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      name,
		Species:   species,
		Breed:     strings.TrimSpace(in.Breed),
		Age:       in.Age,
		Gender:    gender,
		Weight:    in.Weight,
		Color:     strings.TrimSpace(in.Color),
		Microchip: strings.TrimSpace(in.Microchip),
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// GetByID no chequea permisos. Lo usan otros módulos (records, appointments).
func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, apperr.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// CanRead: dueño, admin o vet aprobado.
func CanRead(actor roles.Actor, p Pet) bool {
	return actor.CanManage(p.OwnerID) || actor.IsApprovedVet()
}

func (s *Service) Get(ctx context.Context, actor roles.Actor, id string) (Pet, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	if !CanRead(actor, p) {
		return Pet{}, apperr.ErrForbidden
	}
	return p, nil
}

// ListByOwner: el propio dueño o admin. Admin sin ownerID ve todas.
func (s *Service) ListByOwner(ctx context.Context, actor roles.Actor, ownerID string) ([]Pet, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" && !actor.IsAdmin() {
		ownerID = actor.UserID
	}
	if ownerID != "" && !actor.CanManage(ownerID) {
		return nil, apperr.ErrForbidden
	}
	return s.repo.ListByOwner(ctx, ownerID)
}

// Patch: nil = no tocar.
type Patch struct {
	Name      *string
	Species   *string
	Breed     *string
	Age       *int
	Gender    *string
	Weight    *float64
	Color     *string
	Microchip *string
	Notes     *string
}

func (s *Service) Update(ctx context.Context, actor roles.Actor, id string, in Patch) (Pet, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	if !actor.CanManage(p.OwnerID) {
		return Pet{}, apperr.ErrForbidden
	}

	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		if v == "" {
			return Pet{}, fmt.Errorf("%w: name cannot be empty", apperr.ErrInvalidInput)
		}
		p.Name = v
	}
	if in.Species != nil {
		v, ok := ParseSpecies(*in.Species)
		if !ok {
			return Pet{}, fmt.Errorf("%w: unknown species %q", apperr.ErrInvalidInput, *in.Species)
		}
		p.Species = v
	}
	if in.Gender != nil {
		v, ok := ParseGender(*in.Gender)
		if !ok {
			return Pet{}, fmt.Errorf("%w: unknown gender %q", apperr.ErrInvalidInput, *in.Gender)
		}
		p.Gender = v
	}
	if in.Breed != nil {
		p.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Age != nil {
		p.Age = *in.Age
	}
	if in.Weight != nil {
		w := *in.Weight
		p.Weight = &w
	}
	if in.Color != nil {
		p.Color = strings.TrimSpace(*in.Color)
	}
	if in.Microchip != nil {
		p.Microchip = strings.TrimSpace(*in.Microchip)
	}
	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}
	if err := validateNumbers(p.Age, p.Weight); err != nil {
		return Pet{}, err
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, actor roles.Actor, id string) error {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManage(p.OwnerID) {
		return apperr.ErrForbidden
	}
	return s.repo.Delete(ctx, p.ID)
}

// UploadImage sube la foto al file store (pet-images/) y guarda la URL en la mascota.
func (s *Service) UploadImage(ctx context.Context, actor roles.Actor, id, fileName, contentType string, r io.Reader) (Pet, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	if !actor.CanManage(p.OwnerID) {
		return Pet{}, apperr.ErrForbidden
	}
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return Pet{}, fmt.Errorf("%w: file must be an image", apperr.ErrInvalidInput)
	}
	if s.files == nil {
		return Pet{}, apperr.Upstream("files", fmt.Errorf("file store not configured"))
	}

	now := s.now()
	obj, err := s.files.Put(ctx, files.ObjectKey(files.FolderPetImages, now, fileName), r, contentType)
	if err != nil {
		return Pet{}, err
	}

	p.ImageURL = obj.URL
	p.UpdatedAt = now
	if err := s.repo.Update(ctx, p); err != nil {
		// La imagen nueva no quedó referenciada: se borra.
		if derr := s.files.Delete(ctx, obj.Key); derr != nil {
			s.log.Warn("orphan pet image not removed", map[string]any{"key": obj.Key, "err": derr})
		}
		return Pet{}, err
	}
	return p, nil
}

func validateNumbers(age int, weight *float64) error {
	if age < 0 || age > 60 {
		return fmt.Errorf("%w: age out of range", apperr.ErrInvalidInput)
	}
	if weight != nil && (*weight <= 0 || *weight > 1000) {
		return fmt.Errorf("%w: weight out of range", apperr.ErrInvalidInput)
	}
	return nil
}

// WithFallback habilita datos de muestra para listados cuando el store no responde.
func (s *Service) WithFallback(p degrade.Policy, sample func() []Pet) *Service {
	s.fallback = p
	s.sample = sample
	return s
}

// List es ListByOwner con degradación: si el store está caído puede devolver muestra.
func (s *Service) List(ctx context.Context, actor roles.Actor, ownerID string) (degrade.Result[[]Pet], error) {
	return degrade.Read(ctx, s.fallback, func(ctx context.Context) ([]Pet, error) {
		return s.ListByOwner(ctx, actor, ownerID)
	}, s.sample)
}
