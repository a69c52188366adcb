package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"car_catalog/internal/model"
	"car_catalog/internal/repository"
)

// statsWindow is how far back the opinions-per-day series of the editor dashboard reaches.
const statsWindow = 7 * 24 * time.Hour

// ModerationService holds the editor tools for regular users
type ModerationService interface {
	ListRegularUsers(ctx context.Context) ([]model.User, error)
	Suspend(ctx context.Context, username string, days int, reason string) error
	Warn(ctx context.Context, username, message string) error
	Stats(ctx context.Context) (*model.EditorStats, error)
}

type moderationService struct {
	userRepo    repository.UserRepository
	opinionRepo repository.OpinionRepository
	log         *slog.Logger
	now         func() time.Time
}

// NewModerationService creates a new ModerationService
func NewModerationService(userRepo repository.UserRepository, opinionRepo repository.OpinionRepository,
	log *slog.Logger) ModerationService {
	return &moderationService{userRepo: userRepo, opinionRepo: opinionRepo, log: log, now: time.Now}
}

func (s *moderationService) ListRegularUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.ListByRole(ctx, model.RoleUser)
}

// regularUser loads username and refuses anyone who is not a plain user.
func (s *moderationService) regularUser(ctx context.Context, username string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error finding user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if user.Role != model.RoleUser {
		return nil, ErrNotRegularUser
	}
	return user, nil
}

// Suspend suspends username for days days. A non-empty reason is also recorded as a warning.
func (s *moderationService) Suspend(ctx context.Context, username string, days int, reason string) error {
	if days < 1 {
		return fmt.Errorf("%w: days must be at least 1", ErrInvalidInput)
	}
	user, err := s.regularUser(ctx, username)
	if err != nil {
		return err
	}

	now := s.now()
	until := now.AddDate(0, 0, days)
	var warning *model.Warning
	if reason = strings.TrimSpace(reason); reason != "" {
		warning = &model.Warning{
			Message: fmt.Sprintf("Suspensión temporal por %d días. Motivo: %s", days, reason),
			Date:    now,
		}
	}
	if err := s.userRepo.Suspend(ctx, user.ID, until, warning); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "user suspended", "username", username, "until", until)
	return nil
}

func (s *moderationService) Warn(ctx context.Context, username, message string) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("%w: a warning message is required", ErrInvalidInput)
	}
	user, err := s.regularUser(ctx, username)
	if err != nil {
		return err
	}
	return s.userRepo.AddWarning(ctx, user.ID, model.Warning{Message: message, Date: s.now()})
}

func (s *moderationService) Stats(ctx context.Context) (*model.EditorStats, error) {
	var (
		stats model.EditorStats
		err   error
	)
	if stats.TotalOpinions, err = s.opinionRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.HighlightedOpinions, err = s.opinionRepo.CountHighlighted(ctx); err != nil {
		return nil, err
	}
	if stats.PendingOpinions, err = s.opinionRepo.CountByState(ctx, model.OpinionPending); err != nil {
		return nil, err
	}
	if stats.TotalUsers, err = s.userRepo.CountByRole(ctx, model.RoleUser); err != nil {
		return nil, err
	}
	if stats.SuspendedUsers, err = s.userRepo.CountSuspended(ctx); err != nil {
		return nil, err
	}
	if stats.OpinionsByDay, err = s.opinionRepo.CountByDaySince(ctx, s.now().Add(-statsWindow)); err != nil {
		return nil, err
	}
	return &stats, nil
}
