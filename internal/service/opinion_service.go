package service

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"car_catalog/internal/model"
	"car_catalog/internal/repository"
)

// OpinionService manages user testimonials and their moderation
type OpinionService interface {
	List(ctx context.Context) ([]model.Opinion, error)
	Highlighted(ctx context.Context) ([]model.Opinion, error)
	Create(ctx context.Context, username, text string, image *multipart.FileHeader) (*model.Opinion, error)
	Update(ctx context.Context, id int64, update model.OpinionUpdate, editor string) (*model.Opinion, error)
	Delete(ctx context.Context, id int64) error
}

type opinionService struct {
	repo     repository.OpinionRepository
	uploader ImageUploader
	log      *slog.Logger
	now      func() time.Time
}

// NewOpinionService creates a new OpinionService
func NewOpinionService(repo repository.OpinionRepository, uploader ImageUploader, log *slog.Logger) OpinionService {
	return &opinionService{repo: repo, uploader: uploader, log: log, now: time.Now}
}

func (s *opinionService) List(ctx context.Context) ([]model.Opinion, error) {
	return s.repo.List(ctx)
}

func (s *opinionService) Highlighted(ctx context.Context) ([]model.Opinion, error) {
	return s.repo.ListHighlighted(ctx)
}

// Create publishes an opinion authored by username. New opinions are approved right away.
func (s *opinionService) Create(ctx context.Context, username, text string, image *multipart.FileHeader) (*model.Opinion, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: opinion text is required", ErrInvalidInput)
	}
	imagePath, err := saveOptional(ctx, s.uploader, "opinion", image)
	if err != nil {
		return nil, err
	}

	opinion := &model.Opinion{
		Username:  username,
		Text:      text,
		Image:     imagePath,
		State:     model.OpinionApproved,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, opinion); err != nil {
		if imagePath != nil {
			discardImage(ctx, s.uploader, s.log, *imagePath)
		}
		return nil, err
	}
	return opinion, nil
}

// Update applies an editor's changes and stamps the editor and edit time.
func (s *opinionService) Update(ctx context.Context, id int64, update model.OpinionUpdate, editor string) (*model.Opinion, error) {
	if update.State != nil && !update.State.Valid() {
		return nil, fmt.Errorf("%w: unknown opinion state %q", ErrInvalidInput, *update.State)
	}
	opinion, err := s.repo.Update(ctx, id, update, editor, s.now())
	if err != nil {
		return nil, err
	}
	if opinion == nil {
		return nil, ErrNotFound
	}
	return opinion, nil
}

func (s *opinionService) Delete(ctx context.Context, id int64) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}
