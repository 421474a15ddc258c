package middleware

import (
	"time"

	"foodtruck/internal/common"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// RequestLogger writes one access log line per request and hands a
// request-scoped logger to everything downstream through the context.
func RequestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = req.Header.Get(echo.HeaderXRequestID)
			}
			reqLogger := logger.With().Str("request_id", requestID).Logger()
			c.SetRequest(req.WithContext(reqLogger.WithContext(req.Context())))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			event := reqLogger.Info()
			if status >= 500 {
				event = reqLogger.Error().Err(err)
			}
			if actor, ok := common.GetActorFromContext(c.Request().Context()); ok {
				event = event.Str("user_id", actor.UserID.String()).Str("role", actor.Role.String())
			}
			event.
				Str("method", req.Method).
				Str("uri", req.RequestURI).
				Int("status", status).
				Dur("latency", time.Since(start)).
				Msg("request completed")

			return nil
		}
	}
}
