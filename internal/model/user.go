package model

import (
	"strings"
	"time"
)

// User is an account that can sign in to the API.
type User struct {
	ID           int64     `gorm:"primaryKey"`
	Username     string    `gorm:"uniqueIndex;size:150;not null"`
	FirstName    string    `gorm:"size:150"`
	LastName     string    `gorm:"size:150"`
	PasswordHash string    `gorm:"size:255;not null"`
	Role         Role      `gorm:"size:20;not null;default:guest"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (User) TableName() string { return "users" }

// FullName joins first and last name, trimmed.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// DisplayName is the full name, or the username when no name is set.
// Service companies are matched against this value.
func (u *User) DisplayName() string {
	if full := u.FullName(); full != "" {
		return full
	}
	return u.Username
}
