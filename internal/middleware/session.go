package middleware

import (
	"inbox-dashboard/internal/dashboard"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
)

const (
	SessionName = "inbox_dashboard"

	sessionIDKey  = "session_id"
	controllerKey = "dashboard"
)

// SessionMiddleware resolves the browser's session id, issuing one on the
// first visit, and attaches the session's dashboard controller.
func SessionMiddleware(store sessions.Store, registry *dashboard.Registry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A cookie signed with an old secret yields a fresh session.
			session, _ := store.Get(c.Request(), SessionName)

			sessionID, ok := session.Values[sessionIDKey].(string)
			if !ok || sessionID == "" {
				sessionID = uuid.New().String()
				session.Values[sessionIDKey] = sessionID
				if err := session.Save(c.Request(), c.Response()); err != nil {
					c.Logger().Error("Failed to save session:", err)
				}
			}

			c.Set(sessionIDKey, sessionID)
			c.Set(controllerKey, registry.Get(sessionID))
			return next(c)
		}
	}
}

// SessionID returns the id attached by SessionMiddleware.
func SessionID(c echo.Context) string {
	id, _ := c.Get(sessionIDKey).(string)
	return id
}

// Controller returns the dashboard attached by SessionMiddleware, or nil.
func Controller(c echo.Context) *dashboard.Controller {
	ctrl, _ := c.Get(controllerKey).(*dashboard.Controller)
	return ctrl
}

// WithController attaches ctrl directly, for handlers exercised without the
// cookie round trip.
func WithController(c echo.Context, sessionID string, ctrl *dashboard.Controller) {
	c.Set(sessionIDKey, sessionID)
	c.Set(controllerKey, ctrl)
}
