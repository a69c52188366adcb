package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"car_catalog/internal/captcha"
	"car_catalog/internal/model"
	"car_catalog/internal/repository"
	"car_catalog/internal/utils"
)

// CaptchaOutcome is the result of the CAPTCHA gate of a login attempt.
type CaptchaOutcome int

const (
	CaptchaNotRequired CaptchaOutcome = iota
	CaptchaPassed
	CaptchaMissing
	CaptchaRejected
	CaptchaUnverifiable
)

func (o CaptchaOutcome) String() string {
	switch o {
	case CaptchaNotRequired:
		return "not_required"
	case CaptchaPassed:
		return "passed"
	case CaptchaMissing:
		return "missing"
	case CaptchaRejected:
		return "rejected"
	case CaptchaUnverifiable:
		return "unverifiable"
	}
	return "unknown"
}

// Err maps the outcome to the error a login attempt fails with, or nil when it may proceed.
func (o CaptchaOutcome) Err() error {
	switch o {
	case CaptchaNotRequired, CaptchaPassed:
		return nil
	case CaptchaMissing:
		return ErrCaptchaRequired
	case CaptchaRejected:
		return ErrCaptchaFailed
	default:
		return ErrCaptchaVerification
	}
}

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	Token    string
	Username string
	Role     model.Role
}

// RegisterInput is a self-service registration request.
type RegisterInput struct {
	Username              string `validate:"required,min=3,max=30"`
	Email                 string `validate:"required,email"`
	Password              string `validate:"required"`
	PrivacyPolicyAccepted bool
}

// PrivilegedRegisterInput is an account created by an administrator.
type PrivilegedRegisterInput struct {
	Username string `validate:"required,min=3,max=30"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
	Role     model.Role
}

// AuthService issues session tokens and creates accounts
type AuthService interface {
	Login(ctx context.Context, email, password, captchaResponse string) (*LoginResult, error)
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	RegisterPrivileged(ctx context.Context, in PrivilegedRegisterInput) (*model.User, error)
}

type authService struct {
	userRepo     repository.UserRepository
	verifier     captcha.Verifier
	jwtUtil      *utils.JWTUtil
	queryTimeout time.Duration
	log          *slog.Logger
	now          func() time.Time
}

// NewAuthService creates a new AuthService. Storage lookups are bounded by queryTimeout.
func NewAuthService(userRepo repository.UserRepository, verifier captcha.Verifier, jwtUtil *utils.JWTUtil,
	queryTimeout time.Duration, log *slog.Logger) AuthService {
	return &authService{
		userRepo:     userRepo,
		verifier:     verifier,
		jwtUtil:      jwtUtil,
		queryTimeout: queryTimeout,
		log:          log,
		now:          time.Now,
	}
}

// Login checks, in order: the account exists, the CAPTCHA gate when the account has it enabled,
// and the password. The first failing step decides the error.
func (s *authService) Login(ctx context.Context, email, password, captchaResponse string) (*LoginResult, error) {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	outcome := s.checkCaptcha(ctx, user, captchaResponse)
	if err := outcome.Err(); err != nil {
		return nil, err
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidPassword
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResult{Token: token, Username: user.Username, Role: user.Role}, nil
}

func (s *authService) findByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	return s.userRepo.FindByEmail(ctx, normalizeEmail(email))
}

func (s *authService) checkCaptcha(ctx context.Context, user *model.User, response string) CaptchaOutcome {
	if !user.CaptchaEnabled {
		return CaptchaNotRequired
	}
	if response == "" {
		return CaptchaMissing
	}
	ok, err := s.verifier.Verify(ctx, response)
	if err != nil {
		s.log.ErrorContext(ctx, "captcha verification error", "user_id", user.ID, "error", err)
		return CaptchaUnverifiable
	}
	if !ok {
		return CaptchaRejected
	}
	return CaptchaPassed
}

// Register creates a regular account. The stored role is always user.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if !in.PrivacyPolicyAccepted {
		return nil, ErrPrivacyPolicyNotAccepted
	}
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	user := &model.User{
		Username:              in.Username,
		Email:                 in.Email,
		Role:                  model.RoleUser,
		PrivacyPolicyAccepted: true,
	}
	if err := s.ensureAvailable(ctx, user.Username, user.Email); err != nil {
		return nil, err
	}
	if err := s.create(ctx, user, in.Password); err != nil {
		return nil, err
	}
	return user, nil
}

// RegisterPrivileged creates an account with an explicit role; only user and admin may be granted here.
func (s *authService) RegisterPrivileged(ctx context.Context, in PrivilegedRegisterInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	if err := s.ensureAvailable(ctx, in.Username, in.Email); err != nil {
		return nil, err
	}
	if in.Role != model.RoleUser && in.Role != model.RoleAdmin {
		return nil, ErrInvalidRole
	}

	user := &model.User{
		Username: in.Username,
		Email:    in.Email,
		Role:     in.Role,
	}
	if err := s.create(ctx, user, in.Password); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "privileged account created", "username", user.Username, "role", user.Role)
	return user, nil
}

func (s *authService) ensureAvailable(ctx context.Context, username, email string) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return ErrConflict
	}
	return nil
}

// create hashes the password and stores the user. A unique index violation from a concurrent
// registration also reports ErrConflict.
func (s *authService) create(ctx context.Context, user *model.User, password string) error {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hashedPassword
	user.CreatedAt = s.now()

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrConflict
		}
		return fmt.Errorf("failed to create user in repository: %w", err)
	}
	return nil
}
