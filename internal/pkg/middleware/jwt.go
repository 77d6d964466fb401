package middleware

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	jwtpkg "github.com/openride/dispatch/internal/pkg/jwt"
	"github.com/openride/dispatch/internal/pkg/models"
	"github.com/openride/dispatch/internal/utils"
)

// Context keys set by JWTAuthMiddleware.
const (
	ContextKeyUserID      = "user_id"
	ContextKeyAccountType = "account_type"
)

// JWTAuthMiddleware authenticates requests via a Bearer token and puts
// the actor's id and account type on the echo context. The core treats
// authentication as an external collaborator; all it needs downstream
// is the current actor's identity.
func JWTAuthMiddleware(config models.JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return utils.UnauthorizedResponse(c, "Authorization header is required")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return utils.UnauthorizedResponse(c, "Invalid authorization format")
			}

			claims, err := jwtpkg.ValidateToken(parts[1], config.Secret)
			if err != nil {
				return utils.UnauthorizedResponse(c, "Invalid token")
			}

			userIDStr, ok := claims[ContextKeyUserID]
			if !ok {
				return utils.UnauthorizedResponse(c, "Invalid token: missing user_id claim")
			}

			accountType, ok := claims[ContextKeyAccountType]
			if !ok {
				return utils.UnauthorizedResponse(c, "Invalid token: missing account_type claim")
			}

			userID, err := uuid.Parse(fmt.Sprintf("%v", userIDStr))
			if err != nil {
				return utils.UnauthorizedResponse(c, "Invalid token: user_id is not a valid UUID")
			}

			c.Set(ContextKeyUserID, userID)
			c.Set(ContextKeyAccountType, models.AccountType(fmt.Sprintf("%v", accountType)))

			return next(c)
		}
	}
}

// ActorID returns the authenticated user id placed on the context by
// JWTAuthMiddleware.
func ActorID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(ContextKeyUserID).(uuid.UUID)
	return id, ok
}

// ActorAccountType returns the authenticated account type placed on the
// context by JWTAuthMiddleware.
func ActorAccountType(c echo.Context) (models.AccountType, bool) {
	t, ok := c.Get(ContextKeyAccountType).(models.AccountType)
	return t, ok
}
