package model

import "time"

// Announcement is an editor-curated notice shown during its date window.
type Announcement struct {
	ID        int64      `json:"_id"`
	Title     string     `json:"titulo"`
	Content   string     `json:"contenido"`
	Image     *string    `json:"imagen"`
	StartDate time.Time  `json:"fechaInicio"`
	EndDate   time.Time  `json:"fechaFin"`
	Active    bool       `json:"activo"`
	CreatedBy string     `json:"creadoPor"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
	UpdatedBy *string    `json:"updatedBy"`
}

// AnnouncementInput is the editable part of an announcement.
type AnnouncementInput struct {
	Title     string
	Content   string
	StartDate time.Time
	EndDate   time.Time
	Active    string
}

// IsActive reports whether the given instant falls inside the announcement window.
func (a Announcement) IsActive(now time.Time) bool {
	return a.Active && !a.StartDate.After(now) && !a.EndDate.Before(now)
}
