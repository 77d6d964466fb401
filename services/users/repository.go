package users

import (
	"context"

	"github.com/google/uuid"
	"github.com/openride/dispatch/internal/pkg/models"
)

// UserRepo defines the interface for account persistence
//
//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/openride/dispatch/services/users UserRepo
type UserRepo interface {
	// CreateUser inserts the account. ErrEmailTaken when the email is
	// already registered.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser returns the account by id, ErrUserNotFound when missing.
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetUserByEmail returns the account by email, ErrUserNotFound
	// when missing.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}
