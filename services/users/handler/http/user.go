package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/openride/dispatch/internal/pkg/database"
	"github.com/openride/dispatch/internal/pkg/logger"
	"github.com/openride/dispatch/internal/pkg/models"
	"github.com/openride/dispatch/internal/utils"
	"github.com/openride/dispatch/services/users"
)

// UserHandler handles HTTP requests for account management
type UserHandler struct {
	userUC users.UserUC
}

// NewUserHandler creates a new user handler
func NewUserHandler(userUC users.UserUC) *UserHandler {
	return &UserHandler{userUC: userUC}
}

// RegisterPayload is the body of a signup request
type RegisterPayload struct {
	FullName    string             `json:"full_name"`
	Email       string             `json:"email"`
	Password    string             `json:"password"`
	AccountType models.AccountType `json:"account_type"`
}

// LoginPayload is the body of a login request
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /auth/register
func (h *UserHandler) Register(c echo.Context) error {
	var payload RegisterPayload
	if err := c.Bind(&payload); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}
	if payload.FullName == "" || payload.Email == "" || payload.Password == "" {
		return utils.BadRequestResponse(c, "full_name, email and password are required")
	}

	user, err := h.userUC.Register(c.Request().Context(),
		payload.FullName, payload.Email, payload.Password, payload.AccountType)
	if err != nil {
		return userErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusCreated, "User registered", user)
}

// Login handles POST /auth/login
func (h *UserHandler) Login(c echo.Context) error {
	var payload LoginPayload
	if err := c.Bind(&payload); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}
	if payload.Email == "" || payload.Password == "" {
		return utils.BadRequestResponse(c, "email and password are required")
	}

	auth, err := h.userUC.Login(c.Request().Context(), payload.Email, payload.Password)
	if err != nil {
		return userErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "Login successful", auth)
}

// GetUser handles GET /users/:id
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid user id")
	}

	user, err := h.userUC.GetUser(c.Request().Context(), id)
	if err != nil {
		return userErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "", user)
}

func userErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, users.ErrEmailTaken):
		return utils.ConflictResponse(c, "Email already registered")
	case errors.Is(err, users.ErrInvalidAccountType):
		return utils.BadRequestResponse(c, "Invalid account type")
	case errors.Is(err, users.ErrInvalidCredentials):
		return utils.UnauthorizedResponse(c, "Invalid credentials")
	case errors.Is(err, users.ErrUserNotFound):
		return utils.NotFoundResponse(c, "User not found")
	case errors.Is(err, database.ErrStoreUnavailable):
		logger.Error("User store unavailable", logger.Err(err))
		return utils.ServiceUnavailableResponse(c, "")
	default:
		logger.Error("Unexpected user handler error", logger.Err(err))
		return utils.InternalServerErrorResponse(c, "")
	}
}
