package middleware

import (
	"inbox-dashboard/internal/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// RequestIDHeader is the HTTP header for request ID
const RequestIDHeader = echo.HeaderXRequestID

// RequestLogger tags each request with an id and logs it once it completes.
func RequestLogger(log *logger.Logger) []echo.MiddlewareFunc {
	zl := log.WithComponent("http").Zerolog()

	requestID := echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: func() string { return uuid.New().String() },
	})

	access := echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			event := zl.Info()
			switch {
			case v.Error != nil || v.Status >= 500:
				event = zl.Error().Err(v.Error)
			case v.Status >= 400:
				event = zl.Warn()
			}
			event.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})

	return []echo.MiddlewareFunc{requestID, access}
}
