package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/openride/dispatch/internal/pkg/logger"
)

// HeaderRequestID is the header carrying the request id. Incoming ids
// are kept so callers can correlate retries; missing ones are minted.
const HeaderRequestID = "X-Request-ID"

// RequestIDMiddleware ensures every request carries a request id.
func RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(HeaderRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			c.Response().Header().Set(HeaderRequestID, requestID)
			c.Set("request_id", requestID)
			return next(c)
		}
	}
}

// RequestLoggerMiddleware logs one line per request with method, path,
// status and latency.
func RequestLoggerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			requestID, _ := c.Get("request_id").(string)
			logger.Info("Request completed",
				logger.String("request_id", requestID),
				logger.String("method", c.Request().Method),
				logger.String("path", c.Request().URL.Path),
				logger.Int("status", c.Response().Status),
				logger.Duration("latency", time.Since(start)))

			return err
		}
	}
}
