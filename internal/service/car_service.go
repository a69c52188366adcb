package service

import (
	"context"
	"log/slog"
	"math"
	"mime/multipart"
	"sort"
	"time"

	"car_catalog/internal/model"
	"car_catalog/internal/repository"
)

// DefaultMostVisited is the ranking size used when no limit is given.
const DefaultMostVisited = 10

// CarService manages the catalog and its visit statistics
type CarService interface {
	List(ctx context.Context) ([]model.Car, error)
	View(ctx context.Context, id int64) (*model.Car, error)
	Create(ctx context.Context, in model.CarInput, image *multipart.FileHeader, editor string) (*model.Car, error)
	Update(ctx context.Context, id int64, in model.CarInput, image *multipart.FileHeader, editor string) (*model.Car, error)
	Delete(ctx context.Context, id int64) error
	ResetViews(ctx context.Context, id int64) (*model.Car, error)
	MostVisited(ctx context.Context, limit int) ([]model.CarSummary, error)
	GeneralStats(ctx context.Context) (*model.CarViewStats, error)
	BrandStats(ctx context.Context) ([]model.BrandViewStats, error)
}

type carService struct {
	repo     repository.CarRepository
	uploader ImageUploader
	log      *slog.Logger
	now      func() time.Time
}

// NewCarService creates a new CarService
func NewCarService(repo repository.CarRepository, uploader ImageUploader, log *slog.Logger) CarService {
	return &carService{repo: repo, uploader: uploader, log: log, now: time.Now}
}

func (s *carService) List(ctx context.Context) ([]model.Car, error) {
	return s.repo.List(ctx)
}

// View returns the car and counts the visit.
func (s *carService) View(ctx context.Context, id int64) (*model.Car, error) {
	car, err := s.repo.IncrementViews(ctx, id)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, ErrNotFound
	}
	return car, nil
}

func (s *carService) Create(ctx context.Context, in model.CarInput, image *multipart.FileHeader, editor string) (*model.Car, error) {
	if image == nil {
		return nil, ErrImageRequired
	}
	imagePath, err := s.uploader.SaveImage(ctx, "car", image)
	if err != nil {
		return nil, err
	}

	car := &model.Car{
		Brand:     in.Brand,
		Name:      in.Name,
		Year:      in.Year,
		Image:     imagePath,
		Specs:     in.Specs(),
		CreatedAt: s.now(),
		UpdatedBy: &editor,
	}
	if err := s.repo.Create(ctx, car); err != nil {
		discardImage(ctx, s.uploader, s.log, imagePath)
		return nil, err
	}
	return car, nil
}

// Update rewrites a car. The stored image is kept unless a new one is uploaded.
func (s *carService) Update(ctx context.Context, id int64, in model.CarInput, image *multipart.FileHeader, editor string) (*model.Car, error) {
	var imagePath string
	if image != nil {
		p, err := s.uploader.SaveImage(ctx, "car", image)
		if err != nil {
			return nil, err
		}
		imagePath = p
	}

	now := s.now()
	car := &model.Car{
		ID:        id,
		Brand:     in.Brand,
		Name:      in.Name,
		Year:      in.Year,
		Image:     imagePath,
		Specs:     in.Specs(),
		UpdatedAt: &now,
		UpdatedBy: &editor,
	}
	found, err := s.repo.Update(ctx, car)
	if err == nil && !found {
		err = ErrNotFound
	}
	if err != nil {
		if imagePath != "" {
			discardImage(ctx, s.uploader, s.log, imagePath)
		}
		return nil, err
	}
	return car, nil
}

func (s *carService) Delete(ctx context.Context, id int64) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

func (s *carService) ResetViews(ctx context.Context, id int64) (*model.Car, error) {
	car, err := s.repo.ResetViews(ctx, id)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, ErrNotFound
	}
	return car, nil
}

func (s *carService) MostVisited(ctx context.Context, limit int) ([]model.CarSummary, error) {
	if limit <= 0 {
		limit = DefaultMostVisited
	}
	return s.repo.MostVisited(ctx, limit)
}

func (s *carService) GeneralStats(ctx context.Context) (*model.CarViewStats, error) {
	stats, err := s.repo.ViewStats(ctx)
	if err != nil {
		return nil, err
	}
	stats.AverageViews = round2(stats.AverageViews)
	return stats, nil
}

// BrandStats groups the catalog by brand, ordered by total views descending. A brand whose cars
// have never been visited has no most visited car.
func (s *carService) BrandStats(ctx context.Context) ([]model.BrandViewStats, error) {
	cars, err := s.repo.ViewCounts(ctx)
	if err != nil {
		return nil, err
	}
	return brandStats(cars), nil
}

func brandStats(cars []model.Car) []model.BrandViewStats {
	index := map[string]int{}
	stats := []model.BrandViewStats{}
	for _, c := range cars {
		i, ok := index[c.Brand]
		if !ok {
			i = len(stats)
			index[c.Brand] = i
			stats = append(stats, model.BrandViewStats{Brand: c.Brand, MinViews: c.ViewCount, MaxViews: c.ViewCount})
		}
		b := &stats[i]
		b.TotalViews += c.ViewCount
		b.CarCount++
		b.MaxViews = max(b.MaxViews, c.ViewCount)
		b.MinViews = min(b.MinViews, c.ViewCount)
		if c.ViewCount > 0 && (b.MostVisited == nil || c.ViewCount > b.MostVisited.ViewCount) {
			b.MostVisited = &model.CarSummary{ID: c.ID, Brand: c.Brand, Name: c.Name, ViewCount: c.ViewCount}
		}
	}
	for i := range stats {
		stats[i].AverageViews = round2(float64(stats[i].TotalViews) / float64(stats[i].CarCount))
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].TotalViews > stats[j].TotalViews })
	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
