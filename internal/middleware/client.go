package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	// ClientContextKey holds the browser client id in the echo context.
	ClientContextKey = "client_id"

	clientSession = "umbrella-session"
	clientIDKey   = "client_id"
)

// ClientID ensures every browser carries a stable client id in its session
// cookie and exposes it to handlers. Page views are bound to that id. It
// must run after the session middleware.
func ClientID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := session.Get(clientSession, c)
		if err != nil {
			// A cookie signed with an old secret decodes as an error, but
			// session.Get still hands back a fresh session to use.
			FromContext(c.Request().Context()).Debug("Discarding unreadable session", "error", err)
		}
		if sess == nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
		}

		id, _ := sess.Values[clientIDKey].(string)
		if id == "" {
			id = uuid.NewString()
			sess.Values[clientIDKey] = id
			if err := sess.Save(c.Request(), c.Response()); err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "failed to save session").SetInternal(err)
			}
		}

		c.Set(ClientContextKey, id)
		return next(c)
	}
}

// ClientFromContext returns the client id set by ClientID.
func ClientFromContext(c echo.Context) string {
	id, _ := c.Get(ClientContextKey).(string)
	return id
}
