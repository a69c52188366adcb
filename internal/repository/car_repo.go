package repository

import (
	"context"
	"errors"
	"fmt"

	"car_catalog/internal/model"

	"github.com/jackc/pgx/v5"
)

const carColumns = `id, brand, name, year, image, engine, transmission, fuel, cylinders, power, acceleration,
	view_count, created_at, updated_at, updated_by`

// CarRepository defines operations for the car catalog
type CarRepository interface {
	Create(ctx context.Context, car *model.Car) error
	List(ctx context.Context) ([]model.Car, error)
	IncrementViews(ctx context.Context, id int64) (*model.Car, error)
	Update(ctx context.Context, car *model.Car) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ResetViews(ctx context.Context, id int64) (*model.Car, error)
	MostVisited(ctx context.Context, limit int) ([]model.CarSummary, error)
	ViewStats(ctx context.Context) (*model.CarViewStats, error)
	ViewCounts(ctx context.Context) ([]model.Car, error)
}

type carRepository struct {
	db DB
}

// NewCarRepository creates a new CarRepository
func NewCarRepository(db DB) CarRepository {
	return &carRepository{db: db}
}

func scanCar(row pgx.Row) (*model.Car, error) {
	c := &model.Car{}
	err := row.Scan(&c.ID, &c.Brand, &c.Name, &c.Year, &c.Image,
		&c.Specs.Engine, &c.Specs.Transmission, &c.Specs.Fuel, &c.Specs.Cylinders, &c.Specs.Power, &c.Specs.Acceleration,
		&c.ViewCount, &c.CreatedAt, &c.UpdatedAt, &c.UpdatedBy)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a new car
func (r *carRepository) Create(ctx context.Context, c *model.Car) error {
	sql := `INSERT INTO cars (brand, name, year, image, engine, transmission, fuel, cylinders, power, acceleration,
                created_at, updated_by)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	err := r.db.QueryRow(ctx, sql, c.Brand, c.Name, c.Year, c.Image,
		c.Specs.Engine, c.Specs.Transmission, c.Specs.Fuel, c.Specs.Cylinders, c.Specs.Power, c.Specs.Acceleration,
		c.CreatedAt, c.UpdatedBy).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to create car: %w", err)
	}
	return nil
}

// List returns the catalog sorted by brand then name
func (r *carRepository) List(ctx context.Context) ([]model.Car, error) {
	rows, err := r.db.Query(ctx, `SELECT `+carColumns+` FROM cars ORDER BY brand, name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cars: %w", err)
	}
	defer rows.Close()

	cars := []model.Car{}
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan car row: %w", err)
		}
		cars = append(cars, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating car rows: %w", err)
	}
	return cars, nil
}

func (r *carRepository) updateReturning(ctx context.Context, sql string, args ...any) (*model.Car, error) {
	c, err := scanCar(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// IncrementViews bumps the view counter in one statement and returns the updated car, or nil if absent
func (r *carRepository) IncrementViews(ctx context.Context, id int64) (*model.Car, error) {
	c, err := r.updateReturning(ctx, `UPDATE cars SET view_count = view_count + 1 WHERE id = $1 RETURNING `+carColumns, id)
	if err != nil {
		return nil, fmt.Errorf("failed to increment car views: %w", err)
	}
	return c, nil
}

// ResetViews sets the view counter back to zero and returns the updated car, or nil if absent
func (r *carRepository) ResetViews(ctx context.Context, id int64) (*model.Car, error) {
	c, err := r.updateReturning(ctx, `UPDATE cars SET view_count = 0 WHERE id = $1 RETURNING `+carColumns, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reset car views: %w", err)
	}
	return c, nil
}

// Update rewrites the editable fields; an empty Image keeps the stored one. It fills c with the
// stored row and reports false when no car has that id.
func (r *carRepository) Update(ctx context.Context, c *model.Car) (bool, error) {
	sql := `UPDATE cars SET brand = $1, name = $2, year = $3, image = COALESCE(NULLIF($4, ''), image),
                engine = $5, transmission = $6, fuel = $7, cylinders = $8, power = $9, acceleration = $10,
                updated_at = $11, updated_by = $12
            WHERE id = $13 RETURNING ` + carColumns
	stored, err := r.updateReturning(ctx, sql, c.Brand, c.Name, c.Year, c.Image,
		c.Specs.Engine, c.Specs.Transmission, c.Specs.Fuel, c.Specs.Cylinders, c.Specs.Power, c.Specs.Acceleration,
		c.UpdatedAt, c.UpdatedBy, c.ID)
	if err != nil {
		return false, fmt.Errorf("failed to update car: %w", err)
	}
	if stored == nil {
		return false, nil
	}
	*c = *stored
	return true, nil
}

// Delete removes a car and reports whether it existed
func (r *carRepository) Delete(ctx context.Context, id int64) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete car: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// MostVisited returns the top cars by view count
func (r *carRepository) MostVisited(ctx context.Context, limit int) ([]model.CarSummary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, brand, name, year, image, view_count FROM cars ORDER BY view_count DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query most visited cars: %w", err)
	}
	defer rows.Close()

	cars := []model.CarSummary{}
	for rows.Next() {
		var s model.CarSummary
		if err := rows.Scan(&s.ID, &s.Brand, &s.Name, &s.Year, &s.Image, &s.ViewCount); err != nil {
			return nil, fmt.Errorf("failed to scan car summary: %w", err)
		}
		cars = append(cars, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating car summaries: %w", err)
	}
	return cars, nil
}

// ViewStats aggregates visits across the whole catalog
func (r *carRepository) ViewStats(ctx context.Context) (*model.CarViewStats, error) {
	stats := &model.CarViewStats{}
	sql := `SELECT COALESCE(SUM(view_count), 0)::BIGINT,
                   COALESCE(AVG(view_count), 0)::FLOAT8,
                   COUNT(*),
                   COUNT(*) FILTER (WHERE view_count = 0)
            FROM cars`
	err := r.db.QueryRow(ctx, sql).Scan(&stats.TotalViews, &stats.AverageViews, &stats.TotalCars, &stats.UnvisitedCount)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate car views: %w", err)
	}
	stats.VisitedCars = stats.TotalCars - stats.UnvisitedCount

	top := &model.CarSummary{}
	err = r.db.QueryRow(ctx, `SELECT id, brand, name, view_count FROM cars ORDER BY view_count DESC, id LIMIT 1`).
		Scan(&top.ID, &top.Brand, &top.Name, &top.ViewCount)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("failed to find most visited car: %w", err)
	default:
		stats.MostVisited = top
	}
	return stats, nil
}

// ViewCounts returns id, brand, name and view count of every car, grouped by brand
func (r *carRepository) ViewCounts(ctx context.Context) ([]model.Car, error) {
	rows, err := r.db.Query(ctx, `SELECT id, brand, name, view_count FROM cars ORDER BY brand, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query car view counts: %w", err)
	}
	defer rows.Close()

	cars := []model.Car{}
	for rows.Next() {
		var c model.Car
		if err := rows.Scan(&c.ID, &c.Brand, &c.Name, &c.ViewCount); err != nil {
			return nil, fmt.Errorf("failed to scan car view count: %w", err)
		}
		cars = append(cars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating car view counts: %w", err)
	}
	return cars, nil
}
