package models

import "time"

// UserStatus is the lifecycle state of an account.
type UserStatus string

const (
	StatusActive    UserStatus = "ACTIVE"
	StatusInactive  UserStatus = "INACTIVE"
	StatusSuspended UserStatus = "SUSPENDED"
)

// User represents an application user. Email is stored normalized
// (trimmed, lowercased) and must be unique among non-deleted records.
type User struct {
	ID           string     `gorm:"primaryKey;size:36"`
	Email        string     `gorm:"size:255;index;not null"`
	DisplayName  string     `gorm:"size:64;not null"`
	PasswordHash string     `gorm:"size:255;not null"`
	Status       UserStatus `gorm:"size:16;not null;default:ACTIVE"`
	CreatedAt    time.Time

	FailedLoginCount int        `gorm:"default:0"` // consecutive failed logins
	LockedUntil      *time.Time `gorm:"index"`     // lockout expiry, nil when unlocked

	DeletedAt *time.Time `gorm:"index"` // soft delete
}

// LockedAt reports whether the account is locked at the given instant.
func (u *User) LockedAt(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// SafeUser is the owner-facing projection of a User: no password hash,
// no lockout bookkeeping.
type SafeUser struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Status      UserStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Profile is the public projection of a User. It carries no email and no
// mutable security fields, so lockout bookkeeping never makes a cached
// profile stale.
type Profile struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Safe returns the owner-facing view of the user.
func (u *User) Safe() SafeUser {
	return SafeUser{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Status:      u.Status,
		CreatedAt:   u.CreatedAt,
	}
}

// PublicProfile returns the public view of the user.
func (u *User) PublicProfile() Profile {
	return Profile{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}
