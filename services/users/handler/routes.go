package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/openride/dispatch/internal/pkg/middleware"
	"github.com/openride/dispatch/internal/pkg/models"
	"github.com/openride/dispatch/services/users"
	userhttp "github.com/openride/dispatch/services/users/handler/http"
)

// Handler wires account management routes
type Handler struct {
	userHandler *userhttp.UserHandler
}

// NewHandler creates a new users handler
func NewHandler(userUC users.UserUC) *Handler {
	return &Handler{
		userHandler: userhttp.NewUserHandler(userUC),
	}
}

// RegisterRoutes registers auth and profile routes. Signup and login
// are public; profile reads require a token.
func (h *Handler) RegisterRoutes(e *echo.Echo, jwtConfig models.JWTConfig) {
	auth := e.Group("/auth")
	auth.POST("/register", h.userHandler.Register)
	auth.POST("/login", h.userHandler.Login)

	usersGroup := e.Group("/users", middleware.JWTAuthMiddleware(jwtConfig))
	usersGroup.GET("/:id", h.userHandler.GetUser)
}
