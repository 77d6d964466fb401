package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/openride/dispatch/internal/pkg/database"
	"github.com/openride/dispatch/internal/pkg/logger"
	"github.com/openride/dispatch/internal/pkg/middleware"
	"github.com/openride/dispatch/internal/pkg/models"
	"github.com/openride/dispatch/internal/utils"
	"github.com/openride/dispatch/services/trips"
)

// TripHandler handles HTTP requests for the trip lifecycle
type TripHandler struct {
	tripUC trips.TripUC
}

// NewTripHandler creates a new trip handler
func NewTripHandler(tripUC trips.TripUC) *TripHandler {
	return &TripHandler{tripUC: tripUC}
}

// RequestTripPayload is the body of a trip request
type RequestTripPayload struct {
	Pickup      models.Coordinate `json:"pickup"`
	Destination models.Coordinate `json:"destination"`
}

// RequestTrip handles POST /trips. The passenger id is the
// authenticated actor; clients cannot request trips for other users.
func (h *TripHandler) RequestTrip(c echo.Context) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}
	if accountType, _ := middleware.ActorAccountType(c); accountType != models.AccountTypePassenger {
		return utils.ForbiddenResponse(c, "Only passengers can request trips")
	}

	var payload RequestTripPayload
	if err := c.Bind(&payload); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}

	trip, err := h.tripUC.RequestTrip(c.Request().Context(), actorID.String(), payload.Pickup, payload.Destination)
	if err != nil {
		return tripErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusCreated, "Trip requested", trip)
}

// GetTrip handles GET /trips/:passengerID
func (h *TripHandler) GetTrip(c echo.Context) error {
	passengerID := c.Param("passengerID")
	if passengerID == "" {
		return utils.BadRequestResponse(c, "passengerID is required")
	}

	trip, err := h.tripUC.GetTrip(c.Request().Context(), passengerID)
	if err != nil {
		return tripErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "", trip)
}

// AcceptTrip handles POST /trips/:passengerID/accept. The driver id is
// the authenticated actor.
func (h *TripHandler) AcceptTrip(c echo.Context) error {
	return h.driverAction(c, h.tripUC.AcceptTrip, "Trip accepted")
}

// StartTrip handles POST /trips/:passengerID/start
func (h *TripHandler) StartTrip(c echo.Context) error {
	return h.driverAction(c, h.tripUC.StartTrip, "Trip started")
}

// CompleteTrip handles POST /trips/:passengerID/complete
func (h *TripHandler) CompleteTrip(c echo.Context) error {
	return h.driverAction(c, h.tripUC.CompleteTrip, "Trip completed")
}

func (h *TripHandler) driverAction(
	c echo.Context,
	action func(ctx context.Context, passengerID, driverID string) (*models.Trip, error),
	message string,
) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}
	if accountType, _ := middleware.ActorAccountType(c); accountType != models.AccountTypeDriver {
		return utils.ForbiddenResponse(c, "Only drivers can perform this action")
	}

	passengerID := c.Param("passengerID")
	if passengerID == "" {
		return utils.BadRequestResponse(c, "passengerID is required")
	}

	trip, err := action(c.Request().Context(), passengerID, actorID.String())
	if err != nil {
		return tripErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, message, trip)
}

// tripErrorResponse maps the trip error taxonomy onto HTTP statuses.
func tripErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, trips.ErrTripNotFound):
		return utils.NotFoundResponse(c, "Trip not found")
	case errors.Is(err, trips.ErrAlreadyActive):
		return utils.ConflictResponse(c, "Passenger already has an active trip")
	case errors.Is(err, trips.ErrAlreadyAccepted):
		return utils.ConflictResponse(c, "Trip already taken by another driver")
	case errors.Is(err, trips.ErrTripAlreadyCompleted):
		return utils.ConflictResponse(c, "Trip already completed")
	case errors.Is(err, trips.ErrInvalidTransition):
		return utils.ConflictResponse(c, "Invalid trip state transition")
	case errors.Is(err, trips.ErrInvalidCoordinates):
		return utils.BadRequestResponse(c, "Invalid coordinates")
	case errors.Is(err, database.ErrStoreUnavailable):
		logger.Error("Trip store unavailable", logger.Err(err))
		return utils.ServiceUnavailableResponse(c, "")
	default:
		logger.Error("Unexpected trip handler error", logger.Err(err))
		return utils.InternalServerErrorResponse(c, "")
	}
}
