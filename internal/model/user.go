package model

import "time"

// Role is the coarse permission tier assigned to a user.
type Role string

const (
	// RoleAdmin can manage the user roster.
	RoleAdmin Role = "admin"
	// RoleStudent is the default role for self-registered users.
	RoleStudent Role = "student"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}

// AdminUsername is the reserved roster account seeded at first startup.
// It can never be deleted.
const AdminUsername = "admin"

// User represents a stored account in the system.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:80;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         Role      `json:"role" gorm:"size:20;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Summary is the roster view returned to admins: identity only, no
// password material.
type Summary struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Summary converts a user to its roster view.
func (u *User) Summary() Summary {
	return Summary{Username: u.Username, Role: u.Role}
}
