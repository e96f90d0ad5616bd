package appointments

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"pawsera/internal/domain/activity"
	"pawsera/internal/domain/pets"
	"pawsera/internal/domain/roles"
	"pawsera/internal/domain/users"
	"pawsera/internal/platform/apperr"
	"pawsera/internal/platform/degrade"
	"pawsera/internal/platform/logger"

	"github.com/google/uuid"
)

const DefaultSlot = 30 * time.Minute

type Service struct {
	repo  Repository
	pets  *pets.Service
	users *users.Service
	slot  time.Duration
	now   func() time.Time

	// serializa chequeo de solapamiento + alta
	mu sync.Mutex

	fallback degrade.Policy
	sample   func() []Appointment

	activity *activity.Service
	log      logger.Logger
}

func NewService(repo Repository, petsSvc *pets.Service, usersSvc *users.Service, slot time.Duration) *Service {
	if slot <= 0 {
		slot = DefaultSlot
	}
	return &Service{
		repo:  repo,
		pets:  petsSvc,
		users: usersSvc,
		slot:  slot,
		now:   time.Now,
		log:   logger.Nop(),
	}
}

func (s *Service) WithLogger(log logger.Logger) *Service {
	if log != nil {
		s.log = log
	}
	return s
}

// WithActivity registra cada alta en el feed de actividad.
func (s *Service) WithActivity(a *activity.Service) *Service {
	s.activity = a
	return s
}

// WithFallback habilita datos de muestra para listados cuando el store no responde.
func (s *Service) WithFallback(p degrade.Policy, sample func() []Appointment) *Service {
	s.fallback = p
	s.sample = sample
	return s
}

type CreateInput struct {
	PetID   string
	VetID   string // un vet que agenda puede omitirlo
	Date    string // YYYY-MM-DD
	Time    string // HH:MM
	Purpose string
	Notes   string
	Status  Status // pending | confirmed; vacío = confirmed
}

func (s *Service) Create(ctx context.Context, actor roles.Actor, in CreateInput) (Appointment, error) {
	p, err := s.pets.GetByID(ctx, in.PetID)
	if err != nil {
		return Appointment{}, err
	}

	vetID := strings.TrimSpace(in.VetID)
	switch {
	case actor.IsAdmin():
	case actor.Role == roles.PetOwner:
		if p.OwnerID != actor.UserID {
			return Appointment{}, apperr.ErrForbidden
		}
	case actor.IsApprovedVet():
		if vetID == "" {
			vetID = actor.UserID
		}
		if vetID != actor.UserID {
			return Appointment{}, apperr.ErrForbidden
		}
	default:
		return Appointment{}, apperr.ErrForbidden
	}

	vet, err := s.approvedVet(ctx, vetID)
	if err != nil {
		return Appointment{}, err
	}

	day, err := time.Parse(DateLayout, strings.TrimSpace(in.Date))
	if err != nil {
		return Appointment{}, fmt.Errorf("%w: date must be YYYY-MM-DD", apperr.ErrInvalidInput)
	}
	clock, err := time.Parse(TimeLayout, strings.TrimSpace(in.Time))
	if err != nil {
		return Appointment{}, fmt.Errorf("%w: time must be HH:MM", apperr.ErrInvalidInput)
	}

	status := in.Status
	switch status {
	case "":
		status = StatusConfirmed
	case StatusPending, StatusConfirmed:
	default:
		return Appointment{}, fmt.Errorf("%w: initial status must be pending or confirmed", apperr.ErrInvalidInput)
	}

	startsAt := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC)
	now := s.now()
	a := Appointment{
		ID:        uuid.NewString(),
		PetID:     p.ID,
		PetName:   p.Name,
		OwnerID:   p.OwnerID,
		VetID:     vet.ID,
		VetName:   vet.Name,
		Date:      day.UTC(),
		Time:      startsAt.Format(TimeLayout),
		StartsAt:  startsAt,
		Purpose:   strings.TrimSpace(in.Purpose),
		Notes:     strings.TrimSpace(in.Notes),
		Status:    status,
		CreatedBy: actor.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkSlot(ctx, a); err != nil {
		return Appointment{}, err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Appointment{}, err
	}

	// El feed no es parte del alta: si falla, el turno queda igual.
	if s.activity != nil {
		if _, err := s.activity.Record(ctx, activity.TypeAppointmentBooked, actor.UserID, a.ID,
			fmt.Sprintf("Appointment scheduled for %s with %s", a.PetName, a.VetName)); err != nil {
			s.log.Warn("activity record failed", map[string]any{"appointment_id": a.ID, "err": err})
		}
	}
	return a, nil
}

func (s *Service) approvedVet(ctx context.Context, vetID string) (users.User, error) {
	if vetID == "" {
		return users.User{}, fmt.Errorf("%w: vet_id is required", apperr.ErrInvalidInput)
	}
	v, err := s.users.GetByID(ctx, vetID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return users.User{}, fmt.Errorf("%w: vet not found", apperr.ErrInvalidInput)
		}
		return users.User{}, err
	}
	if v.Role != roles.Vet || v.Status != roles.VetApproved {
		return users.User{}, fmt.Errorf("%w: vet is not approved", apperr.ErrInvalidInput)
	}
	return v, nil
}

// checkSlot rechaza si el vet ya tiene un turno activo que se solape con [StartsAt, StartsAt+slot).
// La ventana de búsqueda es por hora y no por día: un turno de las 23:45
// choca con uno de las 00:00 del día siguiente.
func (s *Service) checkSlot(ctx context.Context, a Appointment) error {
	from := a.StartsAt.Add(-s.slot)
	to := a.StartsAt.Add(s.slot)
	existing, err := s.repo.List(ctx, ListFilter{VetID: a.VetID, From: &from, To: &to})
	if err != nil {
		return err
	}
	end := a.StartsAt.Add(s.slot)
	for _, e := range existing {
		if !e.Active() || e.ID == a.ID {
			continue
		}
		eEnd := e.StartsAt.Add(s.slot)
		if a.StartsAt.Before(eEnd) && e.StartsAt.Before(end) {
			return fmt.Errorf("%w: vet already booked at %s", apperr.ErrConflict, e.StartsAt.Format("2006-01-02 15:04"))
		}
	}
	return nil
}

// -------------------------
// Transiciones
// -------------------------

// Confirm: pending -> confirmed. Vet asignado o admin.
func (s *Service) Confirm(ctx context.Context, actor roles.Actor, id string) (Appointment, error) {
	return s.transition(ctx, actor, id, StatusConfirmed, func(a Appointment) bool {
		return actor.IsAdmin() || isAssignedVet(actor, a)
	}, StatusPending)
}

// Cancel: pending|confirmed -> cancelled. Dueño, vet asignado o admin.
func (s *Service) Cancel(ctx context.Context, actor roles.Actor, id string) (Appointment, error) {
	return s.transition(ctx, actor, id, StatusCancelled, func(a Appointment) bool {
		return actor.CanManage(a.OwnerID) || isAssignedVet(actor, a)
	}, StatusPending, StatusConfirmed)
}

// Complete: confirmed -> completed. Vet asignado o admin.
func (s *Service) Complete(ctx context.Context, actor roles.Actor, id string) (Appointment, error) {
	return s.transition(ctx, actor, id, StatusCompleted, func(a Appointment) bool {
		return actor.IsAdmin() || isAssignedVet(actor, a)
	}, StatusConfirmed)
}

func (s *Service) transition(ctx context.Context, actor roles.Actor, id string, to Status, allowed func(Appointment) bool, from ...Status) (Appointment, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	// Permisos primero, para no filtrar el estado a quien no corresponde.
	if !allowed(a) {
		return Appointment{}, apperr.ErrForbidden
	}

	ok := false
	for _, f := range from {
		if a.Status == f {
			ok = true
			break
		}
	}
	if !ok {
		return Appointment{}, fmt.Errorf("%w: %s -> %s", apperr.ErrInvalidTransition, a.Status, to)
	}

	// Update compara contra el estado leído: si otro cambio ganó en el medio,
	// el repo devuelve ErrInvalidTransition.
	prev := a.Status
	a.Status = to
	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a, prev); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

func isAssignedVet(actor roles.Actor, a Appointment) bool {
	return actor.IsApprovedVet() && actor.UserID == a.VetID
}

// -------------------------
// Consultas
// -------------------------

func (s *Service) GetByID(ctx context.Context, id string) (Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Appointment{}, apperr.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// Get: dueño, vet asignado o admin.
func (s *Service) Get(ctx context.Context, actor roles.Actor, id string) (Appointment, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if !actor.CanManage(a.OwnerID) && !isAssignedVet(actor, a) {
		return Appointment{}, apperr.ErrForbidden
	}
	return a, nil
}

// scope acota el filtro a lo que el actor puede ver. Admin ve todo; un vet
// solo sus turnos; un dueño solo los suyos. Pedir los de otro => Forbidden.
func scope(actor roles.Actor, f ListFilter) (ListFilter, error) {
	switch {
	case actor.IsAdmin():
		return f, nil
	case actor.Role == roles.Vet:
		if !actor.IsApprovedVet() {
			return ListFilter{}, apperr.ErrForbidden
		}
		if f.VetID != "" && f.VetID != actor.UserID {
			return ListFilter{}, apperr.ErrForbidden
		}
		// puede filtrar por dueño, pero siempre dentro de su agenda
		f.VetID = actor.UserID
		return f, nil
	case actor.Role == roles.PetOwner:
		if f.OwnerID != "" && f.OwnerID != actor.UserID {
			return ListFilter{}, apperr.ErrForbidden
		}
		f.OwnerID = actor.UserID
		return f, nil
	default:
		return ListFilter{}, apperr.ErrForbidden
	}
}

func (s *Service) Query(ctx context.Context, actor roles.Actor, f ListFilter) ([]Appointment, error) {
	f, err := scope(actor, f)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	SortByStart(items)
	return items, nil
}

// List es Query con degradación a datos de muestra si el store está caído.
func (s *Service) List(ctx context.Context, actor roles.Actor, f ListFilter) (degrade.Result[[]Appointment], error) {
	f, err := scope(actor, f)
	if err != nil {
		return degrade.Result[[]Appointment]{}, err
	}
	return degrade.Read(ctx, s.fallback, func(ctx context.Context) ([]Appointment, error) {
		return s.Query(ctx, actor, f)
	}, s.sample)
}

func (s *Service) ListByOwner(ctx context.Context, actor roles.Actor, ownerID string) ([]Appointment, error) {
	if !actor.CanManage(ownerID) {
		return nil, apperr.ErrForbidden
	}
	return s.Query(ctx, actor, ListFilter{OwnerID: ownerID})
}

func (s *Service) ListByVet(ctx context.Context, actor roles.Actor, vetID string) ([]Appointment, error) {
	if !actor.IsAdmin() && actor.UserID != vetID {
		return nil, apperr.ErrForbidden
	}
	return s.Query(ctx, actor, ListFilter{VetID: vetID})
}

func (s *Service) ListByStatus(ctx context.Context, actor roles.Actor, status Status) ([]Appointment, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperr.ErrInvalidInput, status)
	}
	return s.Query(ctx, actor, ListFilter{Status: status})
}

func (s *Service) ListByDate(ctx context.Context, actor roles.Actor, day time.Time) ([]Appointment, error) {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return s.Query(ctx, actor, ListFilter{Day: &d})
}

// UpcomingFor devuelve el próximo turno confirmado del dueño con StartsAt >= now.
// ok=false si no hay ninguno.
func (s *Service) UpcomingFor(ctx context.Context, actor roles.Actor, ownerID string, now time.Time) (Appointment, bool, error) {
	if !actor.CanManage(ownerID) {
		return Appointment{}, false, apperr.ErrForbidden
	}
	items, err := s.Query(ctx, actor, ListFilter{OwnerID: ownerID, Status: StatusConfirmed, From: &now})
	if err != nil {
		return Appointment{}, false, err
	}
	a, ok := NextUpcoming(items, now)
	return a, ok, nil
}

// NextUpcoming es la regla pura detrás de UpcomingFor.
func NextUpcoming(items []Appointment, now time.Time) (Appointment, bool) {
	var (
		best  Appointment
		found bool
	)
	for _, a := range items {
		if a.Status != StatusConfirmed || a.StartsAt.Before(now) {
			continue
		}
		if !found || a.StartsAt.Before(best.StartsAt) {
			best, found = a, true
		}
	}
	return best, found
}

func SortByStart(items []Appointment) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].StartsAt.Equal(items[j].StartsAt) {
			return items[i].StartsAt.Before(items[j].StartsAt)
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}

// CountByStatus cuenta turnos por estado (dashboards).
func CountByStatus(items []Appointment) map[Status]int {
	out := map[Status]int{
		StatusPending:   0,
		StatusConfirmed: 0,
		StatusCancelled: 0,
		StatusCompleted: 0,
	}
	for _, a := range items {
		out[a.Status]++
	}
	return out
}
