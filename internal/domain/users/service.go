package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pawsera/internal/domain/roles"
	"pawsera/internal/platform/apperr"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// WithClock reemplaza el reloj (seeds y tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type CreateInput struct {
	ID     string
	Name   string
	Email  string
	Role   roles.Role
	Status roles.VetStatus
}

// Create lo usa identity al registrar; no hay endpoint público.
func (s *Service) Create(ctx context.Context, in CreateInput) (User, error) {
	email := NormalizeEmail(in.Email)
	if strings.TrimSpace(in.ID) == "" || email == "" {
		return User{}, apperr.ErrInvalidInput
	}
	if _, err := roles.ParseRole(string(in.Role)); err != nil {
		return User{}, err
	}

	status := in.Status
	if in.Role != roles.Vet {
		status = ""
	} else if status == "" {
		status = roles.VetPending
	}

	now := s.now()
	u := User{
		ID:            strings.TrimSpace(in.ID),
		Name:          strings.TrimSpace(in.Name),
		Email:         email,
		Role:          in.Role,
		Status:        status,
		Notifications: DefaultNotifications(in.Role),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.Role == roles.Vet {
		u.Availability = DefaultAvailability()
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, apperr.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) FindByEmail(ctx context.Context, email string) (User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return User{}, apperr.ErrNotFound
	}
	return s.repo.FindByEmail(ctx, email)
}

// List es solo para admin (gestión de usuarios).
func (s *Service) List(ctx context.Context, actor roles.Actor, filter ListFilter) ([]User, error) {
	if !actor.IsAdmin() {
		return nil, apperr.ErrForbidden
	}
	return s.repo.List(ctx, filter)
}

// ProfilePatch: nil = no tocar. Rol y estado no se cambian por acá.
// Availability y Notifications se mezclan con lo guardado: solo cambian las keys presentes.
type ProfilePatch struct {
	Name           *string
	Phone          *string
	City           *string
	Specialization *string
	Clinic         *string
	Availability   map[string]DayHours
	Notifications  map[string]bool
}

func (s *Service) UpdateProfile(ctx context.Context, actor roles.Actor, userID string, p ProfilePatch) (User, error) {
	if !actor.CanManage(userID) {
		return User{}, apperr.ErrForbidden
	}
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return User{}, err
	}

	if p.Name != nil {
		v := strings.TrimSpace(*p.Name)
		if v == "" {
			return User{}, fmt.Errorf("%w: name cannot be empty", apperr.ErrInvalidInput)
		}
		u.Name = v
	}
	if p.Phone != nil {
		u.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.City != nil {
		u.City = strings.TrimSpace(*p.City)
	}
	if p.Specialization != nil {
		u.Specialization = strings.TrimSpace(*p.Specialization)
	}
	if p.Clinic != nil {
		u.Clinic = strings.TrimSpace(*p.Clinic)
	}
	if p.Availability != nil {
		av, err := mergeAvailability(u, p.Availability)
		if err != nil {
			return User{}, err
		}
		u.Availability = av
	}
	if p.Notifications != nil {
		n, err := mergeNotifications(u, p.Notifications)
		if err != nil {
			return User{}, err
		}
		u.Notifications = n
	}

	u.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// EnsureCity completa la ciudad si el usuario no tiene una y la persiste.
func (s *Service) EnsureCity(ctx context.Context, u User, city string) (User, error) {
	city = strings.TrimSpace(city)
	if strings.TrimSpace(u.City) != "" || city == "" {
		return u, nil
	}
	u.City = city
	u.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// SaveReview persiste estado y revisión de un vet (approvals). Falla con
// ErrInvalidTransition si el estado guardado ya no es from.
func (s *Service) SaveReview(ctx context.Context, u User, from roles.VetStatus) error {
	return s.repo.UpdateStatus(ctx, u, from)
}

func mergeAvailability(u User, patch map[string]DayHours) (map[string]DayHours, error) {
	if u.Role != roles.Vet {
		return nil, fmt.Errorf("%w: availability is only for vets", apperr.ErrInvalidInput)
	}
	out := DefaultAvailability()
	for d, h := range u.Availability {
		out[d] = h
	}
	for d, h := range patch {
		day := strings.ToLower(strings.TrimSpace(d))
		if _, ok := out[day]; !ok {
			return nil, fmt.Errorf("%w: unknown day %q", apperr.ErrInvalidInput, d)
		}
		start, err := time.Parse("15:04", strings.TrimSpace(h.Start))
		if err != nil {
			return nil, fmt.Errorf("%w: %s start must be HH:MM", apperr.ErrInvalidInput, day)
		}
		end, err := time.Parse("15:04", strings.TrimSpace(h.End))
		if err != nil {
			return nil, fmt.Errorf("%w: %s end must be HH:MM", apperr.ErrInvalidInput, day)
		}
		if !start.Before(end) {
			return nil, fmt.Errorf("%w: %s start must be before end", apperr.ErrInvalidInput, day)
		}
		out[day] = DayHours{Start: start.Format("15:04"), End: end.Format("15:04"), Available: h.Available}
	}
	return out, nil
}

// mergeNotifications solo acepta las keys que el rol conoce.
func mergeNotifications(u User, patch map[string]bool) (map[string]bool, error) {
	out := DefaultNotifications(u.Role)
	for k, v := range u.Notifications {
		if _, ok := out[k]; ok {
			out[k] = v
		}
	}
	for k, v := range patch {
		if _, ok := out[k]; !ok {
			return nil, fmt.Errorf("%w: unknown notification %q", apperr.ErrInvalidInput, k)
		}
		out[k] = v
	}
	return out, nil
}

// ActorFor lo usa el middleware para resolver el rol real del usuario autenticado.
func (s *Service) ActorFor(ctx context.Context, userID string) (roles.Actor, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return roles.Actor{}, err
	}
	return u.Actor(), nil
}

// ListVets no chequea permisos; lo usan approvals y el directorio para reservar turnos.
// Orden: created_at descendente, como List.
func (s *Service) ListVets(ctx context.Context, status roles.VetStatus) ([]User, error) {
	return s.repo.List(ctx, ListFilter{Role: string(roles.Vet), Status: string(status)})
}
