package server

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	appmiddleware "github.com/katariyakhushi/umbrella-customiser/internal/middleware"
	"github.com/labstack/echo/v4"
)

// setupErrorHandling installs an error handler that answers echo HTTP errors
// with their message and logs anything else with a stack trace.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		logger := appmiddleware.FromContext(c.Request().Context())

		var he *echo.HTTPError
		if errors.As(err, &he) {
			if he.Internal != nil {
				logger.Warn("Request failed", "status", he.Code, "error", he.Internal)
			}
			respond(c, he.Code, fmt.Sprint(he.Message))
			return
		}

		logger.Error("Internal Server Error (Unhandled)",
			"error", err,
			"stack_trace", string(debug.Stack()))
		respond(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

func respond(c echo.Context, code int, message string) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.String(code, message)
	}
	if err != nil {
		appmiddleware.FromContext(c.Request().Context()).Error("Failed to write error response", "error", err)
	}
}
