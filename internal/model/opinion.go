package model

import "time"

// OpinionState is the moderation state of an opinion.
type OpinionState string

const (
	OpinionPending  OpinionState = "pendiente"
	OpinionApproved OpinionState = "aprobada"
	OpinionRejected OpinionState = "rechazada"
)

// Valid reports whether s is a known moderation state.
func (s OpinionState) Valid() bool {
	switch s {
	case OpinionPending, OpinionApproved, OpinionRejected:
		return true
	}
	return false
}

// Opinion is a testimonial posted by a user
type Opinion struct {
	ID          int64        `json:"_id"`
	Username    string       `json:"usuario"`
	Text        string       `json:"opinion"`
	Image       *string      `json:"image"`
	Highlighted bool         `json:"destacada"`
	State       OpinionState `json:"estado"`
	EditedBy    *string      `json:"editadaPor"`
	EditedAt    *time.Time   `json:"fechaEdicion"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// OpinionUpdate is the editor's moderation request. Nil fields are left unchanged.
type OpinionUpdate struct {
	Text        *string       `json:"opinion"`
	Highlighted *bool         `json:"destacada"`
	State       *OpinionState `json:"estado"`
}

// DayCount is the number of opinions created on a given day (YYYY-MM-DD).
type DayCount struct {
	Day   string `json:"_id"`
	Count int64  `json:"count"`
}

// EditorStats feeds the editor dashboard.
type EditorStats struct {
	TotalOpinions       int64      `json:"totalOpinions"`
	HighlightedOpinions int64      `json:"highlightedOpinions"`
	PendingOpinions     int64      `json:"pendingOpinions"`
	TotalUsers          int64      `json:"totalUsers"`
	SuspendedUsers      int64      `json:"suspendedUsers"`
	OpinionsByDay       []DayCount `json:"opinionsByDay"`
}
