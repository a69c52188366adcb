package service

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	"car_catalog/internal/model"
	"car_catalog/internal/repository"
)

// AnnouncementService manages editor announcements
type AnnouncementService interface {
	Active(ctx context.Context) ([]model.Announcement, error)
	List(ctx context.Context) ([]model.Announcement, error)
	Create(ctx context.Context, in model.AnnouncementInput, image *multipart.FileHeader, editor string) (*model.Announcement, error)
	Update(ctx context.Context, id int64, in model.AnnouncementInput, image *multipart.FileHeader, editor string) (*model.Announcement, error)
	Delete(ctx context.Context, id int64) error
}

type announcementService struct {
	repo     repository.AnnouncementRepository
	uploader ImageUploader
	log      *slog.Logger
	now      func() time.Time
}

// NewAnnouncementService creates a new AnnouncementService
func NewAnnouncementService(repo repository.AnnouncementRepository, uploader ImageUploader, log *slog.Logger) AnnouncementService {
	return &announcementService{repo: repo, uploader: uploader, log: log, now: time.Now}
}

// Active returns the announcements visible right now.
func (s *announcementService) Active(ctx context.Context) ([]model.Announcement, error) {
	return s.repo.ListActive(ctx, s.now())
}

func (s *announcementService) List(ctx context.Context) ([]model.Announcement, error) {
	return s.repo.List(ctx)
}

func checkWindow(in model.AnnouncementInput) error {
	if in.EndDate.Before(in.StartDate) {
		return fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}
	return nil
}

// Create stores a new announcement. New announcements start active.
func (s *announcementService) Create(ctx context.Context, in model.AnnouncementInput, image *multipart.FileHeader, editor string) (*model.Announcement, error) {
	if err := checkWindow(in); err != nil {
		return nil, err
	}
	imagePath, err := saveOptional(ctx, s.uploader, "announcement", image)
	if err != nil {
		return nil, err
	}

	a := &model.Announcement{
		Title:     in.Title,
		Content:   in.Content,
		Image:     imagePath,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Active:    true,
		CreatedBy: editor,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		if imagePath != nil {
			discardImage(ctx, s.uploader, s.log, *imagePath)
		}
		return nil, err
	}
	return a, nil
}

// Update rewrites an announcement. The active flag is set only by the literal "true"; the image is
// replaced only when a new one is uploaded.
func (s *announcementService) Update(ctx context.Context, id int64, in model.AnnouncementInput, image *multipart.FileHeader, editor string) (*model.Announcement, error) {
	if err := checkWindow(in); err != nil {
		return nil, err
	}
	imagePath, err := saveOptional(ctx, s.uploader, "announcement", image)
	if err != nil {
		return nil, err
	}

	now := s.now()
	a := &model.Announcement{
		ID:        id,
		Title:     in.Title,
		Content:   in.Content,
		Image:     imagePath,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Active:    in.Active == "true",
		UpdatedAt: &now,
		UpdatedBy: &editor,
	}
	found, err := s.repo.Update(ctx, a)
	if err == nil && !found {
		err = ErrNotFound
	}
	if err != nil {
		if imagePath != nil {
			discardImage(ctx, s.uploader, s.log, *imagePath)
		}
		return nil, err
	}
	return a, nil
}

func (s *announcementService) Delete(ctx context.Context, id int64) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}
