package models

import (
	"fmt"
	"time"
)

// User defines the identity record based on the 'users' table
type User struct {
	ID             int64     `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	FirstName      string    `json:"firstName" db:"first_name"`
	LastName       string    `json:"lastName" db:"last_name"`
	ProfilePicture *string   `json:"profilePicture,omitempty" db:"profile_picture"` // Nullable reference only, storage is external
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`

	// Roles granted to the user; a user may hold several at once
	Roles []RoleType `json:"roles,omitempty"`
}

// FullName is derived on every read and never stored.
func (u *User) FullName() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role RoleType) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
