package model

import "time"

// CarSpecs holds the technical sheet of a car.
type CarSpecs struct {
	Engine       string `json:"engine"`
	Transmission string `json:"transmission"`
	Fuel         string `json:"fuel"`
	Cylinders    string `json:"cylinders"`
	Power        string `json:"power"`
	Acceleration string `json:"acceleration"`
}

// Car is a catalog entry
type Car struct {
	ID        int64      `json:"_id"`
	Brand     string     `json:"brand"`
	Name      string     `json:"name"`
	Year      int        `json:"year"`
	Image     string     `json:"image"`
	Specs     CarSpecs   `json:"specs"`
	ViewCount int64      `json:"viewCount"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
	UpdatedBy *string    `json:"updatedBy"`
}

// CarInput is the editable part of a car, bound from a multipart form.
type CarInput struct {
	Brand        string `form:"brand" binding:"required"`
	Name         string `form:"name" binding:"required"`
	Year         int    `form:"year" binding:"required"`
	Engine       string `form:"engine" binding:"required"`
	Transmission string `form:"transmission" binding:"required"`
	Fuel         string `form:"fuel" binding:"required"`
	Cylinders    string `form:"cylinders" binding:"required"`
	Power        string `form:"power" binding:"required"`
	Acceleration string `form:"acceleration" binding:"required"`
}

// Specs returns the spec sheet part of the input.
func (in CarInput) Specs() CarSpecs {
	return CarSpecs{
		Engine:       in.Engine,
		Transmission: in.Transmission,
		Fuel:         in.Fuel,
		Cylinders:    in.Cylinders,
		Power:        in.Power,
		Acceleration: in.Acceleration,
	}
}

// CarSummary is the short form used by the most-visited ranking.
type CarSummary struct {
	ID        int64  `json:"_id"`
	Brand     string `json:"brand"`
	Name      string `json:"name"`
	Year      int    `json:"year,omitempty"`
	Image     string `json:"image,omitempty"`
	ViewCount int64  `json:"viewCount"`
}

// CarViewStats is the catalog-wide visit summary.
type CarViewStats struct {
	TotalViews     int64       `json:"totalViews"`
	AverageViews   float64     `json:"averageViews"`
	MostVisited    *CarSummary `json:"mostVisited"`
	UnvisitedCount int64       `json:"unvisitedCount"`
	TotalCars      int64       `json:"totalCars"`
	VisitedCars    int64       `json:"visitedCars"`
}

// BrandViewStats aggregates visits per brand.
type BrandViewStats struct {
	Brand        string      `json:"brand"`
	TotalViews   int64       `json:"totalViews"`
	CarCount     int64       `json:"carCount"`
	AverageViews float64     `json:"averageViews"`
	MaxViews     int64       `json:"maxViews"`
	MinViews     int64       `json:"minViews"`
	MostVisited  *CarSummary `json:"mostVisited"`
}
