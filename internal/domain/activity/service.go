package activity

import (
	"context"
	"strings"
	"time"

	"pawsera/internal/domain/roles"
	"pawsera/internal/platform/apperr"

	"github.com/google/uuid"
)

const (
	DefaultLimit = 20
	MaxLimit     = 200
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

func (s *Service) Record(ctx context.Context, typ Type, actorID, subjectID, message string) (Entry, error) {
	if typ == "" {
		return Entry{}, apperr.ErrInvalidInput
	}
	e := Entry{
		ID:        uuid.NewString(),
		Type:      typ,
		Message:   strings.TrimSpace(message),
		ActorID:   actorID,
		SubjectID: subjectID,
		CreatedAt: s.now(),
	}
	if err := s.repo.Append(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *Service) ListRecent(ctx context.Context, actor roles.Actor, limit int) ([]Entry, error) {
	if !actor.IsAdmin() {
		return nil, apperr.ErrForbidden
	}
	if limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}
	return s.repo.ListRecent(ctx, limit)
}
