// Package home arma los dashboards de cada destino (OwnerHome, VetHome, AdminHome).
// Cada sección se trae por separado: si una falla las demás siguen y cada una
// informa si vino del backend real o de la muestra.
package home

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"pawsera/internal/domain/activity"
	"pawsera/internal/domain/appointments"
	"pawsera/internal/domain/approvals"
	"pawsera/internal/domain/pets"
	"pawsera/internal/domain/roles"
	"pawsera/internal/domain/users"
	"pawsera/internal/platform/apperr"
	"pawsera/internal/platform/degrade"
	"pawsera/internal/platform/logger"
	"pawsera/internal/ports/weather"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultCity    = "Toronto"
	RecentActivity = 10
	VetUpcomingMax = 10
)

// Section es una parte del dashboard. Error != "" => la sección no se pudo traer.
type Section[T any] struct {
	Data   T              `json:"data"`
	Source degrade.Source `json:"source,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func (s Section[T]) OK() bool { return s.Error == "" }

// Samples son los datos de muestra por sección; nil => esa sección no degrada.
type Samples struct {
	Users    func() []users.User
	Activity func() []activity.Entry
	Weather  func() weather.Report
}

type Deps struct {
	Users        *users.Service
	Pets         *pets.Service
	Appointments *appointments.Service
	Approvals    *approvals.Service
	Activity     *activity.Service
	Weather      weather.Provider
}

type Service struct {
	deps        Deps
	defaultCity string
	fallback    degrade.Policy
	samples     Samples
	log         logger.Logger
	now         func() time.Time
}

func NewService(deps Deps, defaultCity string, log logger.Logger) *Service {
	if strings.TrimSpace(defaultCity) == "" {
		defaultCity = DefaultCity
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		deps:        deps,
		defaultCity: defaultCity,
		log:         log,
		now:         time.Now,
	}
}

func (s *Service) WithFallback(p degrade.Policy, samples Samples) *Service {
	s.fallback = p
	s.samples = samples
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type OwnerDashboard struct {
	Profile  users.User
	Weather  Section[weather.Report]
	Pets     Section[[]pets.Pet]
	Upcoming Section[*appointments.Appointment]
	Counts   Section[map[appointments.Status]int]
}

type VetDashboard struct {
	Profile      users.User
	Approved     bool
	Today        Section[[]appointments.Appointment]
	Upcoming     Section[[]appointments.Appointment]
	PendingCount Section[int]
}

type AdminDashboard struct {
	Profile           users.User
	UserCounts        Section[map[roles.Role]int]
	PendingVets       Section[[]users.User]
	AppointmentCounts Section[map[appointments.Status]int]
	RecentActivity    Section[[]activity.Entry]
}

// OwnerHome: si el dueño no tiene ciudad se le asigna la ciudad por defecto.
func (s *Service) OwnerHome(ctx context.Context, actor roles.Actor) (OwnerDashboard, error) {
	if actor.Role != roles.PetOwner {
		return OwnerDashboard{}, apperr.ErrForbidden
	}
	u, err := s.deps.Users.GetByID(ctx, actor.UserID)
	if err != nil {
		return OwnerDashboard{}, err
	}
	if strings.TrimSpace(u.City) == "" {
		if fixed, err := s.deps.Users.EnsureCity(ctx, u, s.defaultCity); err != nil {
			s.log.Warn("default city not persisted", map[string]any{"user_id": u.ID, "err": err})
			u.City = s.defaultCity
		} else {
			u = fixed
		}
	}

	out := OwnerDashboard{Profile: u}
	now := s.now()

	var g errgroup.Group
	g.Go(func() error {
		out.Weather = s.weatherSection(ctx, u.City)
		return nil
	})
	g.Go(func() error {
		res, err := s.deps.Pets.List(ctx, actor, actor.UserID)
		out.Pets = toSection(s.log, "pets", res, err)
		return nil
	})
	g.Go(func() error {
		res, err := s.deps.Appointments.List(ctx, actor, appointments.ListFilter{OwnerID: actor.UserID})
		items := toSection(s.log, "appointments", res, err)
		out.Upcoming = mapSection(items, func(all []appointments.Appointment) *appointments.Appointment {
			if a, ok := appointments.NextUpcoming(all, now); ok {
				return &a
			}
			return nil
		})
		out.Counts = mapSection(items, appointments.CountByStatus)
		return nil
	})
	_ = g.Wait()

	return out, nil
}

func (s *Service) weatherSection(ctx context.Context, city string) Section[weather.Report] {
	res, err := degrade.Read(ctx, s.fallback, func(ctx context.Context) (weather.Report, error) {
		if s.deps.Weather == nil {
			return weather.Report{}, apperr.Upstream("weather", errors.New("provider not configured"))
		}
		return s.deps.Weather.Current(ctx, city)
	}, s.samples.Weather)
	return toSection(s.log, "weather", res, err)
}

// VetHome: un vet pendiente ve su perfil pero no la agenda.
func (s *Service) VetHome(ctx context.Context, actor roles.Actor) (VetDashboard, error) {
	if actor.Role != roles.Vet {
		return VetDashboard{}, apperr.ErrForbidden
	}
	u, err := s.deps.Users.GetByID(ctx, actor.UserID)
	if err != nil {
		return VetDashboard{}, err
	}
	out := VetDashboard{Profile: u, Approved: actor.IsApprovedVet()}
	if !out.Approved {
		return out, nil
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	res, err := s.deps.Appointments.List(ctx, actor, appointments.ListFilter{VetID: actor.UserID})
	items := toSection(s.log, "appointments", res, err)

	out.Today = mapSection(items, func(all []appointments.Appointment) []appointments.Appointment {
		day := make([]appointments.Appointment, 0)
		for _, a := range all {
			if a.Active() && a.Date.Equal(today) {
				day = append(day, a)
			}
		}
		return day
	})
	out.Upcoming = mapSection(items, func(all []appointments.Appointment) []appointments.Appointment {
		next := make([]appointments.Appointment, 0)
		for _, a := range all {
			if len(next) == VetUpcomingMax {
				break
			}
			if (a.Status == appointments.StatusConfirmed || a.Status == appointments.StatusPending) && !a.StartsAt.Before(now) {
				next = append(next, a)
			}
		}
		return next
	})
	out.PendingCount = mapSection(items, func(all []appointments.Appointment) int {
		return appointments.CountByStatus(all)[appointments.StatusPending]
	})
	return out, nil
}

func (s *Service) AdminHome(ctx context.Context, actor roles.Actor) (AdminDashboard, error) {
	if !actor.IsAdmin() {
		return AdminDashboard{}, apperr.ErrForbidden
	}
	u, err := s.deps.Users.GetByID(ctx, actor.UserID)
	if err != nil {
		return AdminDashboard{}, err
	}
	out := AdminDashboard{Profile: u}

	var g errgroup.Group
	g.Go(func() error {
		res, err := degrade.Read(ctx, s.fallback, func(ctx context.Context) ([]users.User, error) {
			return s.deps.Users.List(ctx, actor, users.ListFilter{})
		}, s.samples.Users)
		all := toSection(s.log, "users", res, err)
		out.UserCounts = mapSection(all, countByRole)
		return nil
	})
	g.Go(func() error {
		res, err := degrade.Read(ctx, s.fallback, func(ctx context.Context) ([]users.User, error) {
			return s.deps.Approvals.ListPending(ctx, actor)
		}, s.samplePendingVets)
		out.PendingVets = toSection(s.log, "pending_vets", res, err)
		return nil
	})
	g.Go(func() error {
		res, err := s.deps.Appointments.List(ctx, actor, appointments.ListFilter{})
		out.AppointmentCounts = mapSection(toSection(s.log, "appointments", res, err), appointments.CountByStatus)
		return nil
	})
	g.Go(func() error {
		res, err := degrade.Read(ctx, s.fallback, func(ctx context.Context) ([]activity.Entry, error) {
			return s.deps.Activity.ListRecent(ctx, actor, RecentActivity)
		}, s.samples.Activity)
		out.RecentActivity = toSection(s.log, "activity", res, err)
		return nil
	})
	_ = g.Wait()

	return out, nil
}

func (s *Service) samplePendingVets() []users.User {
	if s.samples.Users == nil {
		return nil
	}
	out := make([]users.User, 0)
	for _, u := range s.samples.Users() {
		if u.Role == roles.Vet && u.Status == roles.VetPending {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func countByRole(all []users.User) map[roles.Role]int {
	out := map[roles.Role]int{roles.Admin: 0, roles.Vet: 0, roles.PetOwner: 0}
	for _, u := range all {
		out[u.Role]++
	}
	return out
}

// toSection convierte un resultado en sección. El error queda en la sección y se loguea.
func toSection[T any](log logger.Logger, name string, res degrade.Result[T], err error) Section[T] {
	if err != nil {
		log.Warn("home section unavailable", map[string]any{"section": name, "err": err})
		return Section[T]{Error: sectionError(err)}
	}
	if res.Degraded() {
		log.Info("home section served from sample", map[string]any{"section": name, "reason": res.Reason})
	}
	return Section[T]{Data: res.Data, Source: res.Source}
}

func mapSection[A, B any](in Section[A], f func(A) B) Section[B] {
	if !in.OK() {
		return Section[B]{Error: in.Error}
	}
	return Section[B]{Data: f(in.Data), Source: in.Source}
}

// sectionError no expone detalles internos al cliente.
func sectionError(err error) string {
	switch {
	case errors.Is(err, apperr.ErrForbidden):
		return apperr.ErrForbidden.Error()
	case errors.Is(err, apperr.ErrNotFound):
		return apperr.ErrNotFound.Error()
	default:
		return apperr.ErrUpstreamUnavailable.Error()
	}
}
