package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"car_catalog/internal/model"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, email, password_hash, role, captcha_enabled, suspended,
	suspension_end_date, privacy_policy_accepted, created_at`

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	List(ctx context.Context) ([]model.User, error)
	ListByRole(ctx context.Context, role model.Role) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdateRole(ctx context.Context, id int64, role model.Role) error
	SetCaptchaEnabled(ctx context.Context, id int64, enabled bool) (bool, error)
	Suspend(ctx context.Context, id int64, until time.Time, warning *model.Warning) error
	AddWarning(ctx context.Context, id int64, warning model.Warning) error
	Delete(ctx context.Context, id int64) error
	DeleteAccountData(ctx context.Context, id int64, username string) error
	CountByRole(ctx context.Context, role model.Role) (int64, error)
	CountSuspended(ctx context.Context) (int64, error)
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

func scanUser(row pgx.Row) (*model.User, error) {
	user := &model.User{}
	var role string
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &role,
		&user.CaptchaEnabled, &user.Suspended, &user.SuspensionEndDate,
		&user.PrivacyPolicyAccepted, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	user.Role = model.Role(role)
	return user, nil
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (username, email, password_hash, role, captcha_enabled, privacy_policy_accepted, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRow(ctx, sql, user.Username, user.Email, user.PasswordHash, string(user.Role),
		user.CaptchaEnabled, user.PrivacyPolicyAccepted, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) findOne(ctx context.Context, where string, arg any) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	user, err := scanUser(r.db.QueryRow(ctx, sql, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // not found is reported as a nil user, the service layer decides
		}
		return nil, err
	}
	if err := r.loadWarnings(ctx, []*model.User{user}); err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves a user by email, ignoring case
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := r.findOne(ctx, `LOWER(email) = LOWER($1)`, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByUsername retrieves a user by username
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := r.findOne(ctx, `username = $1`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := r.findOne(ctx, `id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// ExistsByUsernameOrEmail reports whether either identity is already taken
func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	sql := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR LOWER(email) = LOWER($2))`
	if err := r.db.QueryRow(ctx, sql, username, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

func (r *userRepository) list(ctx context.Context, sql string, args ...any) ([]model.User, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ptrs []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		ptrs = append(ptrs, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	rows.Close()

	if err := r.loadWarnings(ctx, ptrs); err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(ptrs))
	for _, u := range ptrs {
		users = append(users, *u)
	}
	return users, nil
}

// List returns every user ordered by creation date
func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	users, err := r.list(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ListByRole returns the users holding role
func (r *userRepository) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	users, err := r.list(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY created_at, id`, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	return users, nil
}

// loadWarnings fills the Warnings slice of each user, oldest first.
func (r *userRepository) loadWarnings(ctx context.Context, users []*model.User) error {
	if len(users) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(users))
	byID := make(map[int64]*model.User, len(users))
	for _, u := range users {
		u.Warnings = []model.Warning{}
		ids = append(ids, u.ID)
		byID[u.ID] = u
	}

	rows, err := r.db.Query(ctx,
		`SELECT user_id, message, created_at FROM user_warnings WHERE user_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("failed to query warnings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID int64
		var w model.Warning
		if err := rows.Scan(&userID, &w.Message, &w.Date); err != nil {
			return fmt.Errorf("failed to scan warning row: %w", err)
		}
		if u, ok := byID[userID]; ok {
			u.Warnings = append(u.Warnings, w)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating warning rows: %w", err)
	}
	return nil
}

// Update writes identity, password and role of an existing user
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	sql := `UPDATE users SET username = $1, email = $2, password_hash = $3, role = $4 WHERE id = $5`
	cmdTag, err := r.db.Exec(ctx, sql, user.Username, user.Email, user.PasswordHash, string(user.Role), user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found for update")
	}
	return nil
}

// UpdateRole changes the role of a user
func (r *userRepository) UpdateRole(ctx context.Context, id int64, role model.Role) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE users SET role = $1 WHERE id = $2`, string(role), id)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found for role update")
	}
	return nil
}

// SetCaptchaEnabled toggles the CAPTCHA requirement; it reports false when the user does not exist
func (r *userRepository) SetCaptchaEnabled(ctx context.Context, id int64, enabled bool) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `UPDATE users SET captcha_enabled = $1 WHERE id = $2`, enabled, id)
	if err != nil {
		return false, fmt.Errorf("failed to update captcha setting: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// Suspend marks the user suspended until the given time and optionally records a warning, atomically
func (r *userRepository) Suspend(ctx context.Context, id int64, until time.Time, warning *model.Warning) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin suspension: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	cmdTag, err := tx.Exec(ctx, `UPDATE users SET suspended = TRUE, suspension_end_date = $1 WHERE id = $2`, until, id)
	if err != nil {
		return fmt.Errorf("failed to suspend user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found for suspension")
	}
	if warning != nil {
		if _, err := tx.Exec(ctx, `INSERT INTO user_warnings (user_id, message, created_at) VALUES ($1, $2, $3)`,
			id, warning.Message, warning.Date); err != nil {
			return fmt.Errorf("failed to record suspension warning: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit suspension: %w", err)
	}
	return nil
}

// AddWarning appends a warning to the user's list
func (r *userRepository) AddWarning(ctx context.Context, id int64, warning model.Warning) error {
	_, err := r.db.Exec(ctx, `INSERT INTO user_warnings (user_id, message, created_at) VALUES ($1, $2, $3)`,
		id, warning.Message, warning.Date)
	if err != nil {
		return fmt.Errorf("failed to add warning: %w", err)
	}
	return nil
}

// Delete removes a user; warnings cascade
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found for deletion")
	}
	return nil
}

// DeleteAccountData removes the user's opinions and then the account itself in one transaction
func (r *userRepository) DeleteAccountData(ctx context.Context, id int64, username string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin account removal: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM opinions WHERE username = $1`, username); err != nil {
		return fmt.Errorf("failed to delete user opinions: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit account removal: %w", err)
	}
	return nil
}

// CountByRole counts users holding role
func (r *userRepository) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, string(role)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// CountSuspended counts users flagged as suspended
func (r *userRepository) CountSuspended(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE suspended`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count suspended users: %w", err)
	}
	return n, nil
}
