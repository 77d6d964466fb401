package users

import (
	"context"

	"github.com/google/uuid"
	"github.com/openride/dispatch/internal/pkg/models"
)

// UserUC defines the interface for account management
//
//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/openride/dispatch/services/users UserUC
type UserUC interface {
	// Register creates an account. The account type is fixed at
	// creation and never changes. Duplicate email → ErrEmailTaken.
	Register(ctx context.Context, fullName, email, password string, accountType models.AccountType) (*models.User, error)

	// Login verifies the password and issues a JWT carrying the user
	// id and account type.
	Login(ctx context.Context, email, password string) (*models.AuthToken, error)

	// GetUser returns the account by id, ErrUserNotFound when missing.
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}
