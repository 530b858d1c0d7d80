package domain

import "time"

// UserStatus represents lifecycle states for a platform user.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is an authenticated principal. BusinessID is nil for platform-level
// accounts that are not bound to a tenant.
type User struct {
	ID           string
	BusinessID   *string
	FullName     string
	Email        string
	PasswordHash string
	Roles        []Role
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole reports whether the user carries the given role tag.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
