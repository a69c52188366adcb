package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"car_catalog/internal/model"
	"car_catalog/internal/repository"
	"car_catalog/internal/utils"
)

// UserService covers account self-service and administration of users
type UserService interface {
	UserInfo(ctx context.Context, username string) (*model.User, error)
	CaptchaSetting(ctx context.Context, userID int64) (bool, error)
	SetCaptchaSetting(ctx context.Context, userID int64, enabled bool) error
	CaptchaStatusByEmail(ctx context.Context, email string) (bool, error)
	RevokePrivacyPolicy(ctx context.Context, userID int64, username string) error

	IsAdmin(ctx context.Context, username string) (bool, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateRole(ctx context.Context, username string, role model.Role) error
	DeleteUser(ctx context.Context, actor, username string) error
	UpdateUser(ctx context.Context, id int64, update model.UserUpdate) error
}

type userService struct {
	userRepo repository.UserRepository
	log      *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, log *slog.Logger) UserService {
	return &userService{userRepo: userRepo, log: log}
}

func (s *userService) UserInfo(ctx context.Context, username string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error finding user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *userService) CaptchaSetting(ctx context.Context, userID int64) (bool, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("error finding user: %w", err)
	}
	if user == nil {
		return false, ErrNotFound
	}
	return user.CaptchaEnabled, nil
}

func (s *userService) SetCaptchaSetting(ctx context.Context, userID int64, enabled bool) error {
	found, err := s.userRepo.SetCaptchaEnabled(ctx, userID, enabled)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

// CaptchaStatusByEmail tells the login form whether the account behind email needs a CAPTCHA.
func (s *userService) CaptchaStatusByEmail(ctx context.Context, email string) (bool, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return false, fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return false, ErrNotFound
	}
	return user.CaptchaEnabled, nil
}

// RevokePrivacyPolicy deletes the caller's opinions and account.
func (s *userService) RevokePrivacyPolicy(ctx context.Context, userID int64, username string) error {
	if err := s.userRepo.DeleteAccountData(ctx, userID, username); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "account removed after privacy policy revocation", "user_id", userID)
	return nil
}

// IsAdmin reports whether the stored role of username is admin.
func (s *userService) IsAdmin(ctx context.Context, username string) (bool, error) {
	user, err := s.UserInfo(ctx, username)
	if err != nil {
		return false, err
	}
	return user.Role == model.RoleAdmin, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

func (s *userService) UpdateRole(ctx context.Context, username string, role model.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	user, err := s.UserInfo(ctx, username)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdateRole(ctx, user.ID, role); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "user role updated", "username", username, "role", role)
	return nil
}

// DeleteUser removes username on behalf of actor. Nobody can delete themselves or an administrator.
func (s *userService) DeleteUser(ctx context.Context, actor, username string) error {
	if username == actor {
		return ErrCannotDeleteSelf
	}
	user, err := s.UserInfo(ctx, username)
	if err != nil {
		return err
	}
	if user.Role == model.RoleAdmin {
		return ErrCannotDeleteAdmin
	}
	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "user deleted", "username", username, "by", actor)
	return nil
}

// UpdateUser applies the non-empty fields of update to the user with id.
func (s *userService) UpdateUser(ctx context.Context, id int64, update model.UserUpdate) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error finding user: %w", err)
	}
	if user == nil {
		return ErrNotFound
	}

	if update.Username != nil && strings.TrimSpace(*update.Username) != "" {
		user.Username = strings.TrimSpace(*update.Username)
	}
	if update.Email != nil && strings.TrimSpace(*update.Email) != "" {
		user.Email = normalizeEmail(*update.Email)
	}
	if update.Password != nil && *update.Password != "" {
		hashed, err := utils.HashPassword(*update.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hashed
	}
	if update.Role != nil && *update.Role != "" {
		if !update.Role.Valid() {
			return ErrInvalidRole
		}
		user.Role = *update.Role
	}

	if err := validateStruct(struct {
		Username string `validate:"min=3,max=30"`
		Email    string `validate:"email"`
	}{user.Username, user.Email}); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrConflict
		}
		return err
	}
	return nil
}
