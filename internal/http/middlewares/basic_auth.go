package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"taskgroups.com/taskgroups/internal/services"
)

const (
	userIDKey   = "auth.user_id"
	usernameKey = "auth.username"
)

// BasicAuth guards the API routes. On success the resolved numeric identity
// is stashed in the echo context so handlers can thread it into every
// service call explicitly.
func BasicAuth(auth *services.AuthService) echo.MiddlewareFunc {
	return echomw.BasicAuthWithConfig(echomw.BasicAuthConfig{
		Realm: "TODO Application",
		Validator: func(username, password string, c echo.Context) (bool, error) {
			user, ok := auth.Verify(c.Request().Context(), username, password)
			if !ok {
				return false, nil
			}
			c.Set(userIDKey, user.ID)
			c.Set(usernameKey, user.Username)
			return true, nil
		},
	})
}

// UserID returns the authenticated caller's id, or 0 outside an
// authenticated route.
func UserID(c echo.Context) int {
	id, _ := c.Get(userIDKey).(int)
	return id
}

func Username(c echo.Context) string {
	name, _ := c.Get(usernameKey).(string)
	return name
}
