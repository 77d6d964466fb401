package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/openride/dispatch/internal/pkg/middleware"
	"github.com/openride/dispatch/internal/pkg/models"
	"github.com/openride/dispatch/services/trips"
	triphttp "github.com/openride/dispatch/services/trips/handler/http"
)

// Handler wires trip HTTP routes
type Handler struct {
	tripHandler *triphttp.TripHandler
}

// NewHandler creates a new trips handler
func NewHandler(tripUC trips.TripUC) *Handler {
	return &Handler{
		tripHandler: triphttp.NewTripHandler(tripUC),
	}
}

// RegisterRoutes registers the trip lifecycle routes
func (h *Handler) RegisterRoutes(e *echo.Echo, jwtConfig models.JWTConfig) {
	group := e.Group("/trips", middleware.JWTAuthMiddleware(jwtConfig))

	group.POST("", h.tripHandler.RequestTrip)
	group.GET("/:passengerID", h.tripHandler.GetTrip)
	group.POST("/:passengerID/accept", h.tripHandler.AcceptTrip)
	group.POST("/:passengerID/start", h.tripHandler.StartTrip)
	group.POST("/:passengerID/complete", h.tripHandler.CompleteTrip)
}
