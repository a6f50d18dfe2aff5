package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	esession "github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// newEcho wires the session middleware the way the web server does.
func newEcho() *echo.Echo {
	e := echo.New()
	e.Use(esession.MiddlewareWithConfig(esession.Config{Store: NewCookieStore("test-secret")}))
	return e
}

func TestEstablishAndPrincipalRoundTrip(t *testing.T) {
	e := newEcho()

	e.POST("/login", func(c echo.Context) error {
		require.NoError(t, Establish(c, "user@example.com"))
		return c.NoContent(http.StatusOK)
	})
	e.GET("/whoami", func(c echo.Context) error {
		principal, ok := Principal(c)
		require.True(t, ok)
		require.Equal(t, "user@example.com", principal)
		require.False(t, Verified(c), "fresh principal starts unverified")
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPrincipalAbsentWithoutSession(t *testing.T) {
	e := newEcho()

	e.GET("/whoami", func(c echo.Context) error {
		_, ok := Principal(c)
		require.False(t, ok)
		require.False(t, Verified(c))
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMarkVerified(t *testing.T) {
	e := newEcho()

	e.POST("/login", func(c echo.Context) error {
		require.NoError(t, Establish(c, "user@example.com"))
		require.NoError(t, MarkVerified(c))
		return c.NoContent(http.StatusOK)
	})
	e.GET("/whoami", func(c echo.Context) error {
		require.True(t, Verified(c))
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	cookies := rec.Result().Cookies()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestClearRemovesPrincipal(t *testing.T) {
	e := newEcho()

	e.POST("/login", func(c echo.Context) error {
		require.NoError(t, Establish(c, "user@example.com"))
		return c.NoContent(http.StatusOK)
	})
	e.POST("/logout", func(c echo.Context) error {
		require.NoError(t, Clear(c))
		_, ok := Principal(c)
		require.False(t, ok)
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	cookies := rec.Result().Cookies()

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
