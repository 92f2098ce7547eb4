package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserStatus represents whether a user account may be used.
type UserStatus string

const (
	UserStatusActive   UserStatus = "Active"
	UserStatusDisabled UserStatus = "Disabled"
)

// User is a mill staff account.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"` // Never expose
	Phone        string     `json:"phone,omitempty"`
	Role         string     `json:"role"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsActive returns true if the account is enabled.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
