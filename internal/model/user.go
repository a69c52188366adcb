package model

import "time"

// Role is one of the closed set of account roles. Roles are compared by
// exact value; there is no hierarchy between them.
type Role string

const (
	RoleUser   Role = "user"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleEditor, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// Warning is a moderation note attached to a user account.
type Warning struct {
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
}

// User represents a user in the system
type User struct {
	ID                    int64      `json:"_id"`
	Username              string     `json:"username"`
	Email                 string     `json:"email"`
	PasswordHash          string     `json:"-"` // Do not expose password hash in JSON responses
	Role                  Role       `json:"role"`
	CaptchaEnabled        bool       `json:"captchaEnabled"`
	Suspended             bool       `json:"suspended"`
	SuspensionEndDate     *time.Time `json:"suspensionEndDate"`
	Warnings              []Warning  `json:"warnings"`
	PrivacyPolicyAccepted bool       `json:"privacyPolicyAccepted"`
	CreatedAt             time.Time  `json:"createdAt"`
}

// UserUpdate carries the optional fields of an admin user edit.
type UserUpdate struct {
	Username *string
	Email    *string
	Password *string
	Role     *Role
}
