package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/openride/dispatch/internal/pkg/database"
	"github.com/openride/dispatch/internal/pkg/jwt"
	"github.com/openride/dispatch/internal/pkg/logger"
	"github.com/openride/dispatch/internal/pkg/models"
	"github.com/openride/dispatch/internal/pkg/retry"
	"github.com/openride/dispatch/services/users"
)

// UserUC implements account management.
type UserUC struct {
	cfg      *models.Config
	userRepo users.UserRepo
	retrier  *retry.Retrier
}

// NewUserUC creates a new user usecase
func NewUserUC(cfg *models.Config, userRepo users.UserRepo) *UserUC {
	retryCfg := retry.Config{
		MaxRetries: cfg.Retry.MaxRetries,
		BaseDelay:  time.Duration(cfg.Retry.BaseDelayMs) * time.Millisecond,
		MaxDelay:   time.Duration(cfg.Retry.MaxDelayMs) * time.Millisecond,
		Multiplier: 2.0,
		Jitter:     true,
		RetryableFunc: func(err error) bool {
			return errors.Is(err, database.ErrStoreUnavailable)
		},
	}

	return &UserUC{
		cfg:      cfg,
		userRepo: userRepo,
		retrier:  retry.New(retryCfg),
	}
}

// Register creates an account with a bcrypt-hashed password. The
// account type is fixed here and never changes afterwards.
func (uc *UserUC) Register(ctx context.Context, fullName, email, password string, accountType models.AccountType) (*models.User, error) {
	if !accountType.Valid() {
		return nil, users.ErrInvalidAccountType
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New(),
		FullName:     strings.TrimSpace(fullName),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		AccountType:  accountType,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.retrier.Execute(ctx, func(ctx context.Context) error {
		return uc.userRepo.CreateUser(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("User registered",
		logger.String("user_id", user.ID.String()),
		logger.String("account_type", string(accountType)))

	return user, nil
}

// Login verifies the password and issues a JWT. Unknown email and wrong
// password both come back as ErrInvalidCredentials.
func (uc *UserUC) Login(ctx context.Context, email, password string) (*models.AuthToken, error) {
	var user *models.User
	err := uc.retrier.Execute(ctx, func(ctx context.Context) error {
		var repoErr error
		user, repoErr = uc.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
		return repoErr
	})
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, users.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, users.ErrInvalidCredentials
	}

	token, expiresAt, err := jwt.GenerateToken(user.ID, user.AccountType, uc.cfg.JWT)
	if err != nil {
		return nil, err
	}

	logger.Info("User logged in",
		logger.String("user_id", user.ID.String()))

	return &models.AuthToken{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// GetUser returns the account by id
func (uc *UserUC) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user *models.User
	err := uc.retrier.Execute(ctx, func(ctx context.Context) error {
		var repoErr error
		user, repoErr = uc.userRepo.GetUser(ctx, id)
		return repoErr
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
