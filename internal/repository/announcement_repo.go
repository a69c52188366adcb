package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"car_catalog/internal/model"

	"github.com/jackc/pgx/v5"
)

const announcementColumns = `id, title, content, image, start_date, end_date, active, created_by,
	created_at, updated_at, updated_by`

// AnnouncementRepository defines operations for announcement data
type AnnouncementRepository interface {
	Create(ctx context.Context, a *model.Announcement) error
	ListActive(ctx context.Context, at time.Time) ([]model.Announcement, error)
	List(ctx context.Context) ([]model.Announcement, error)
	Update(ctx context.Context, a *model.Announcement) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type announcementRepository struct {
	db DB
}

// NewAnnouncementRepository creates a new AnnouncementRepository
func NewAnnouncementRepository(db DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func scanAnnouncement(row pgx.Row) (*model.Announcement, error) {
	a := &model.Announcement{}
	err := row.Scan(&a.ID, &a.Title, &a.Content, &a.Image, &a.StartDate, &a.EndDate, &a.Active,
		&a.CreatedBy, &a.CreatedAt, &a.UpdatedAt, &a.UpdatedBy)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts a new announcement
func (r *announcementRepository) Create(ctx context.Context, a *model.Announcement) error {
	sql := `INSERT INTO announcements (title, content, image, start_date, end_date, active, created_by, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := r.db.QueryRow(ctx, sql, a.Title, a.Content, a.Image, a.StartDate, a.EndDate, a.Active,
		a.CreatedBy, a.CreatedAt).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("failed to create announcement: %w", err)
	}
	return nil
}

func (r *announcementRepository) query(ctx context.Context, sql string, args ...any) ([]model.Announcement, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query announcements: %w", err)
	}
	defer rows.Close()

	list := []model.Announcement{}
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan announcement row: %w", err)
		}
		list = append(list, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating announcement rows: %w", err)
	}
	return list, nil
}

// ListActive returns active announcements whose window contains at, newest first
func (r *announcementRepository) ListActive(ctx context.Context, at time.Time) ([]model.Announcement, error) {
	return r.query(ctx, `SELECT `+announcementColumns+` FROM announcements
		WHERE active AND start_date <= $1 AND end_date >= $1 ORDER BY created_at DESC, id DESC`, at)
}

// List returns every announcement, newest first
func (r *announcementRepository) List(ctx context.Context) ([]model.Announcement, error) {
	return r.query(ctx, `SELECT `+announcementColumns+` FROM announcements ORDER BY created_at DESC, id DESC`)
}

// Update rewrites the editable fields; a nil Image keeps the stored one. It fills a with the stored row
// and reports false when no announcement has that id.
func (r *announcementRepository) Update(ctx context.Context, a *model.Announcement) (bool, error) {
	sql := `UPDATE announcements SET title = $1, content = $2, start_date = $3, end_date = $4, active = $5,
                image = COALESCE($6, image), updated_at = $7, updated_by = $8
            WHERE id = $9 RETURNING ` + announcementColumns
	stored, err := scanAnnouncement(r.db.QueryRow(ctx, sql, a.Title, a.Content, a.StartDate, a.EndDate, a.Active,
		a.Image, a.UpdatedAt, a.UpdatedBy, a.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to update announcement: %w", err)
	}
	*a = *stored
	return true, nil
}

// Delete removes an announcement and reports whether it existed
func (r *announcementRepository) Delete(ctx context.Context, id int64) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete announcement: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}
