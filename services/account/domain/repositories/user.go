package repositories

import (
	"context"

	"github.com/ghuser/gamercart/services/account/domain/models"
)

// UserRepository is the persistence interface for accounts.
type UserRepository interface {
	// GetByEmail returns ErrUserNotFound for unknown emails.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Create inserts u and sets its ID. Returns ErrEmailTaken on a duplicate.
	Create(ctx context.Context, u *models.User) error
}
