package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClientEcho() *echo.Echo {
	e := echo.New()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte("test-secret"))))
	e.Use(ClientID)
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, ClientFromContext(c))
	})
	return e
}

func TestClientID_AssignsAndKeepsID(t *testing.T) {
	e := newClientEcho()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	first := rec.Body.String()
	assert.Len(t, first, 36)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, first, rec.Body.String())
	assert.Empty(t, rec.Result().Cookies(), "an existing id should not be re-saved")
}

func TestClientID_DistinctBrowsers(t *testing.T) {
	e := newClientEcho()

	a := httptest.NewRecorder()
	e.ServeHTTP(a, httptest.NewRequest(http.MethodGet, "/", nil))
	b := httptest.NewRecorder()
	e.ServeHTTP(b, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEqual(t, a.Body.String(), b.Body.String())
}

func TestClientID_TamperedCookieGetsFreshID(t *testing.T) {
	e := newClientEcho()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: clientSession, Value: "garbage"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rec.Body.String(), 36)
}
