package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/openride/dispatch/internal/pkg/middleware"
	"github.com/openride/dispatch/internal/pkg/models"
	"github.com/openride/dispatch/services/location"
	locationhttp "github.com/openride/dispatch/services/location/handler/http"
)

// Handler wires driver location routes
type Handler struct {
	locationHandler *locationhttp.LocationHandler
}

// NewHandler creates a new location handler
func NewHandler(locationUC location.LocationUC) *Handler {
	return &Handler{
		locationHandler: locationhttp.NewLocationHandler(locationUC),
	}
}

// RegisterRoutes registers the driver location feed routes
func (h *Handler) RegisterRoutes(e *echo.Echo, jwtConfig models.JWTConfig) {
	group := e.Group("/drivers", middleware.JWTAuthMiddleware(jwtConfig))

	group.POST("/location", h.locationHandler.UpdateLocation)
	group.GET("/nearby", h.locationHandler.NearbyDrivers)
}
