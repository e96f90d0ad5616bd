// Package approvals implementa el alta de veterinarios: pending -> approved | denied.
// approved y denied son terminales.
package approvals

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"pawsera/internal/domain/activity"
	"pawsera/internal/domain/roles"
	"pawsera/internal/domain/users"
	"pawsera/internal/platform/apperr"
	"pawsera/internal/platform/logger"
)

type Service struct {
	users    *users.Service
	activity *activity.Service
	log      logger.Logger
	now      func() time.Time
}

func NewService(usersSvc *users.Service, activitySvc *activity.Service, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		users:    usersSvc,
		activity: activitySvc,
		log:      log,
		now:      time.Now,
	}
}

func (s *Service) Approve(ctx context.Context, actor roles.Actor, vetID string) (users.User, error) {
	return s.review(ctx, actor, vetID, roles.VetApproved)
}

func (s *Service) Deny(ctx context.Context, actor roles.Actor, vetID string) (users.User, error) {
	return s.review(ctx, actor, vetID, roles.VetDenied)
}

func (s *Service) review(ctx context.Context, actor roles.Actor, vetID string, to roles.VetStatus) (users.User, error) {
	if !actor.IsAdmin() {
		return users.User{}, apperr.ErrForbidden
	}

	u, err := s.users.GetByID(ctx, strings.TrimSpace(vetID))
	if err != nil {
		return users.User{}, err
	}
	if u.Role != roles.Vet {
		return users.User{}, fmt.Errorf("%w: user is not a vet", apperr.ErrInvalidInput)
	}
	if u.Status != roles.VetPending {
		return users.User{}, fmt.Errorf("%w: vet is %s", apperr.ErrInvalidTransition, u.Status)
	}

	now := s.now()
	from := u.Status
	u.Status = to
	u.ReviewedBy = actor.UserID
	u.UpdatedAt = now
	if to == roles.VetApproved {
		u.ApprovedAt = &now
	} else {
		u.DeniedAt = &now
	}

	// Si otro admin revisó en el medio, SaveReview devuelve ErrInvalidTransition.
	if err := s.users.SaveReview(ctx, u, from); err != nil {
		return users.User{}, err
	}

	typ, verb := activity.TypeVetApproved, "approved"
	if to == roles.VetDenied {
		typ, verb = activity.TypeVetDenied, "denied"
	}
	if s.activity != nil {
		// El feed es informativo: si falla, la revisión ya quedó guardada.
		if _, err := s.activity.Record(ctx, typ, actor.UserID, u.ID, fmt.Sprintf("Vet %s %s", displayName(u), verb)); err != nil {
			s.log.Warn("activity record failed", map[string]any{"vet_id": u.ID, "err": err})
		}
	}
	return u, nil
}

// ListPending devuelve los vets pendientes, el más antiguo primero.
func (s *Service) ListPending(ctx context.Context, actor roles.Actor) ([]users.User, error) {
	if !actor.IsAdmin() {
		return nil, apperr.ErrForbidden
	}
	return s.listOldestFirst(ctx, roles.VetPending)
}

// ListApproved es el directorio de vets habilitados para reservar.
func (s *Service) ListApproved(ctx context.Context) ([]users.User, error) {
	return s.listOldestFirst(ctx, roles.VetApproved)
}

func (s *Service) listOldestFirst(ctx context.Context, status roles.VetStatus) ([]users.User, error) {
	items, err := s.users.ListVets(ctx, status)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func displayName(u users.User) string {
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	return u.Email
}
