package models

import (
	"time"
)

// Role names stored in the users.roles array
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// User defines the account model based on the 'users' table. An account is
// created on the first verified Google sign-in and is never hard-deleted.
type User struct {
	ID        int64     `json:"id" db:"id"`
	GoogleID  string    `json:"-" db:"google_id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	AvatarURL string    `json:"avatarUrl" db:"avatar_url"`
	Roles     []string  `json:"roles" db:"roles"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the user's role set intersects the allow-list.
func (u *User) HasAnyRole(allowed ...string) bool {
	for _, role := range allowed {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}
