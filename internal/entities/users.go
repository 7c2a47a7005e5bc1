package entities

import (
	"time"
)

type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

// User is a registered account. Passwords are stored as bcrypt hashes,
// refresh tokens live in their own table so they can be revoked.
type User struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	Email        string   `gorm:"uniqueIndex;size:255" json:"email"`
	Username     string   `gorm:"size:25" json:"username"`
	PasswordHash string   `gorm:"size:255" json:"-"`
	Role         UserRole `gorm:"size:20;default:'user'" json:"role"`
	IsActive     bool     `gorm:"default:true" json:"is_active"`

	// Lockout bookkeeping for repeated failed logins
	FailedLoginCount int        `gorm:"default:0" json:"-"`
	LockedUntil      *time.Time `json:"-"`
	LastLoginAt      *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
