package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/openride/dispatch/internal/pkg/database"
	"github.com/openride/dispatch/internal/pkg/logger"
	"github.com/openride/dispatch/internal/pkg/middleware"
	"github.com/openride/dispatch/internal/pkg/models"
	"github.com/openride/dispatch/internal/utils"
	"github.com/openride/dispatch/services/location"
)

// LocationHandler handles HTTP requests for the driver location feed
type LocationHandler struct {
	locationUC location.LocationUC
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(locationUC location.LocationUC) *LocationHandler {
	return &LocationHandler{locationUC: locationUC}
}

// UpdateLocationPayload is the body of a driver location update
type UpdateLocationPayload struct {
	Location  models.Coordinate `json:"location"`
	Timestamp int64             `json:"timestamp,omitempty"`
}

// UpdateLocation handles POST /drivers/location. The driver id is the
// authenticated actor; a driver can only report its own position.
func (h *LocationHandler) UpdateLocation(c echo.Context) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}
	if accountType, _ := middleware.ActorAccountType(c); accountType != models.AccountTypeDriver {
		return utils.ForbiddenResponse(c, "Only drivers can report locations")
	}

	var payload UpdateLocationPayload
	if err := c.Bind(&payload); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}

	entry := models.DriverLocationEntry{
		DriverID: actorID.String(),
		Location: payload.Location,
	}
	if payload.Timestamp > 0 {
		entry.UpdatedAt = time.Unix(payload.Timestamp, 0)
	}

	if err := h.locationUC.UpsertLocation(c.Request().Context(), entry); err != nil {
		return locationErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "Location updated", nil)
}

// NearbyDrivers handles GET /drivers/nearby?latitude=&longitude=&radius=
func (h *LocationHandler) NearbyDrivers(c echo.Context) error {
	if _, ok := middleware.ActorID(c); !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	lat, err := strconv.ParseFloat(c.QueryParam("latitude"), 64)
	if err != nil {
		return utils.BadRequestResponse(c, "latitude is required")
	}
	lng, err := strconv.ParseFloat(c.QueryParam("longitude"), 64)
	if err != nil {
		return utils.BadRequestResponse(c, "longitude is required")
	}

	radius := defaultNearbyRadiusMeters
	if raw := c.QueryParam("radius"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return utils.BadRequestResponse(c, "radius must be a number of meters")
		}
	}

	center := models.Coordinate{Latitude: lat, Longitude: lng}
	drivers, err := h.locationUC.QueryNearby(c.Request().Context(), center, radius)
	if err != nil {
		return locationErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "", drivers)
}

const defaultNearbyRadiusMeters = 1000.0

func locationErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, location.ErrInvalidCoordinates):
		return utils.BadRequestResponse(c, "Invalid coordinates")
	case errors.Is(err, location.ErrInvalidRadius):
		return utils.BadRequestResponse(c, "Invalid radius")
	case errors.Is(err, database.ErrStoreUnavailable):
		logger.Error("Location store unavailable", logger.Err(err))
		return utils.ServiceUnavailableResponse(c, "")
	default:
		logger.Error("Unexpected location handler error", logger.Err(err))
		return utils.InternalServerErrorResponse(c, "")
	}
}
