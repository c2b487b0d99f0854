package repositories

import (
	"errors"

	"folio/internal/models"
)

// ErrEmailTaken is returned by Create when the unique index on users.email
// rejects the row. It backs up the caller's pre-check under concurrent
// registrations.
var ErrEmailTaken = errors.New("email already registered")

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}
