package documents

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"pawsera/internal/domain/pets"
	"pawsera/internal/domain/roles"
	"pawsera/internal/platform/apperr"
	"pawsera/internal/platform/logger"
	"pawsera/internal/ports/files"

	"github.com/google/uuid"
)

type Service struct {
	repo     Repository
	pets     *pets.Service
	files    files.Store
	maxBytes int64
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, petsSvc *pets.Service, store files.Store, maxBytes int64) *Service {
	return &Service{
		repo:     repo,
		pets:     petsSvc,
		files:    store,
		maxBytes: maxBytes,
		log:      logger.Nop(),
		now:      time.Now,
	}
}

func (s *Service) WithLogger(log logger.Logger) *Service {
	if log != nil {
		s.log = log
	}
	return s
}

type UploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Upload guarda los bytes en el file store y la metadata en el repo.
// Dueño de la mascota o admin.
func (s *Service) Upload(ctx context.Context, actor roles.Actor, petID string, in UploadInput) (Document, error) {
	p, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return Document{}, err
	}
	if !actor.CanManage(p.OwnerID) {
		return Document{}, apperr.ErrForbidden
	}

	name := strings.TrimSpace(in.FileName)
	if name == "" || in.Body == nil {
		return Document{}, fmt.Errorf("%w: file is required", apperr.ErrInvalidInput)
	}
	if s.maxBytes > 0 && in.Size > s.maxBytes {
		return Document{}, fmt.Errorf("%w: file exceeds %d bytes", apperr.ErrInvalidInput, s.maxBytes)
	}

	now := s.now()
	obj, err := s.files.Put(ctx, files.ObjectKey(files.FolderPetDocuments, now, name), in.Body, in.ContentType)
	if err != nil {
		return Document{}, err
	}

	size := obj.Size
	if size == 0 {
		size = in.Size
	}
	d := Document{
		ID:         uuid.NewString(),
		PetID:      p.ID,
		OwnerID:    p.OwnerID,
		FileName:   name,
		FileURL:    obj.URL,
		FileKey:    obj.Key,
		FileSize:   size,
		FileType:   in.ContentType,
		UploadedBy: actor.UserID,
		UploadedAt: now,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		if derr := s.files.Delete(ctx, obj.Key); derr != nil {
			s.log.Warn("orphan document not removed", map[string]any{"key": obj.Key, "err": derr})
		}
		return Document{}, err
	}
	return d, nil
}

// ListByPet: dueño, admin o vet aprobado.
func (s *Service) ListByPet(ctx context.Context, actor roles.Actor, petID string) ([]Document, error) {
	if _, err := s.pets.Get(ctx, actor, petID); err != nil {
		return nil, err
	}
	return s.repo.ListByPet(ctx, petID)
}
