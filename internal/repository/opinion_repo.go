package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"car_catalog/internal/model"

	"github.com/jackc/pgx/v5"
)

const opinionColumns = `id, username, opinion, image, highlighted, state, edited_by, edited_at, created_at`

// OpinionRepository defines operations for opinion data
type OpinionRepository interface {
	Create(ctx context.Context, opinion *model.Opinion) error
	List(ctx context.Context) ([]model.Opinion, error)
	ListHighlighted(ctx context.Context) ([]model.Opinion, error)
	Update(ctx context.Context, id int64, update model.OpinionUpdate, editor string, at time.Time) (*model.Opinion, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
	CountHighlighted(ctx context.Context) (int64, error)
	CountByState(ctx context.Context, state model.OpinionState) (int64, error)
	CountByDaySince(ctx context.Context, since time.Time) ([]model.DayCount, error)
}

type opinionRepository struct {
	db DB
}

// NewOpinionRepository creates a new OpinionRepository
func NewOpinionRepository(db DB) OpinionRepository {
	return &opinionRepository{db: db}
}

func scanOpinion(row pgx.Row) (*model.Opinion, error) {
	o := &model.Opinion{}
	var state string
	if err := row.Scan(&o.ID, &o.Username, &o.Text, &o.Image, &o.Highlighted, &state,
		&o.EditedBy, &o.EditedAt, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.State = model.OpinionState(state)
	return o, nil
}

// Create inserts a new opinion
func (r *opinionRepository) Create(ctx context.Context, o *model.Opinion) error {
	sql := `INSERT INTO opinions (username, opinion, image, highlighted, state, created_at)
            VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.db.QueryRow(ctx, sql, o.Username, o.Text, o.Image, o.Highlighted, string(o.State), o.CreatedAt).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("failed to create opinion: %w", err)
	}
	return nil
}

func (r *opinionRepository) query(ctx context.Context, sql string, args ...any) ([]model.Opinion, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query opinions: %w", err)
	}
	defer rows.Close()

	opinions := []model.Opinion{}
	for rows.Next() {
		o, err := scanOpinion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan opinion row: %w", err)
		}
		opinions = append(opinions, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating opinion rows: %w", err)
	}
	return opinions, nil
}

// List returns all opinions, newest first
func (r *opinionRepository) List(ctx context.Context) ([]model.Opinion, error) {
	return r.query(ctx, `SELECT `+opinionColumns+` FROM opinions ORDER BY created_at DESC, id DESC`)
}

// ListHighlighted returns approved opinions flagged as highlighted, newest first
func (r *opinionRepository) ListHighlighted(ctx context.Context) ([]model.Opinion, error) {
	return r.query(ctx, `SELECT `+opinionColumns+` FROM opinions WHERE highlighted AND state = $1
		ORDER BY created_at DESC, id DESC`, string(model.OpinionApproved))
}

// Update applies an editor's moderation; it returns nil when the opinion does not exist
func (r *opinionRepository) Update(ctx context.Context, id int64, u model.OpinionUpdate, editor string, at time.Time) (*model.Opinion, error) {
	var state *string
	if u.State != nil {
		s := string(*u.State)
		state = &s
	}
	sql := `UPDATE opinions SET
                opinion = COALESCE($1, opinion),
                highlighted = COALESCE($2, highlighted),
                state = COALESCE($3, state),
                edited_by = $4,
                edited_at = $5
            WHERE id = $6 RETURNING ` + opinionColumns
	o, err := scanOpinion(r.db.QueryRow(ctx, sql, u.Text, u.Highlighted, state, editor, at, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update opinion: %w", err)
	}
	return o, nil
}

// Delete removes an opinion and reports whether it existed
func (r *opinionRepository) Delete(ctx context.Context, id int64) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM opinions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete opinion: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

func (r *opinionRepository) count(ctx context.Context, sql string, args ...any) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count opinions: %w", err)
	}
	return n, nil
}

func (r *opinionRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM opinions`)
}

func (r *opinionRepository) CountHighlighted(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM opinions WHERE highlighted`)
}

func (r *opinionRepository) CountByState(ctx context.Context, state model.OpinionState) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM opinions WHERE state = $1`, string(state))
}

// CountByDaySince buckets opinions created at or after since by UTC day, ascending
func (r *opinionRepository) CountByDaySince(ctx context.Context, since time.Time) ([]model.DayCount, error) {
	sql := `SELECT TO_CHAR(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*)
            FROM opinions WHERE created_at >= $1 GROUP BY day ORDER BY day`
	rows, err := r.db.Query(ctx, sql, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query opinions by day: %w", err)
	}
	defer rows.Close()

	days := []model.DayCount{}
	for rows.Next() {
		var d model.DayCount
		if err := rows.Scan(&d.Day, &d.Count); err != nil {
			return nil, fmt.Errorf("failed to scan day count: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating day counts: %w", err)
	}
	return days, nil
}
