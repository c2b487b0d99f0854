package models

import "time"

// User represents a registered account. The password hash never leaves the
// server, hence no json tag on it.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email        string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,email"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;type:varchar(255);not null"`
	CreatedAt    time.Time `json:"created_at"`
}
