package webserver

import (
	"fmt"
	"net/http"
	"strings"

	esession "github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/ishu524/productr/internal/app"
	"github.com/ishu524/productr/internal/session"
)

const appContextKey = "productr_app_context"

var server *WebServer

// WebServer wraps the echo instance and the application context handed to
// every handler.
type WebServer struct {
	root   *echo.Echo
	appCtx app.AppContext
}

// Init builds the web server around the application context and installs
// the session and auth-gate middleware. It replaces any previous instance.
func Init(appCtx app.AppContext) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.Debug = appCtx.Config().System.Debug
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.Recover())
	e.Use(esession.MiddlewareWithConfig(esession.Config{Store: appCtx.SessionStore()}))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(appContextKey, appCtx)
			return next(c)
		}
	})
	e.Use(authGate)

	e.GET("/status", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "appid": appCtx.Config().System.Appid})
	})

	server = &WebServer{root: e, appCtx: appCtx}
	return server
}

// Instance returns the current web server.
func Instance() *WebServer {
	return server
}

// Echo exposes the underlying echo instance (tests drive it directly).
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

// Listen starts serving on the configured address and blocks.
func (s *WebServer) Listen() error {
	cfg := s.appCtx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.S().Infof("web server listening on %s", addr)
	return s.root.Start(addr)
}

// GetAppContext pulls the application context injected into the request.
func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(appContextKey).(app.AppContext)
}

// Route registration helpers; handlers register themselves against the
// current instance at startup.

func ApiGET(path string, h echo.HandlerFunc) {
	server.root.GET("/api"+path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.root.POST("/api"+path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.root.PUT("/api"+path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.root.DELETE("/api"+path, h)
}

// publicPaths need no session at all: the login entry point and the OTP
// provider contract itself.
var publicPaths = map[string]bool{
	"/api/login":      true,
	"/api/send-otp":   true,
	"/api/verify-otp": true,
	"/status":         true,
}

// principalPaths need an established principal but not a completed OTP
// verification: the verify step itself, resend, logout and session probe.
var principalPaths = map[string]bool{
	"/api/otp/send":   true,
	"/api/otp/verify": true,
	"/api/logout":     true,
	"/api/session":    true,
}

// authGate enforces the view precondition: protected surfaces only render
// for a verified principal, everything else bounces to the login entry.
func authGate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Path()
		if path == "" {
			path = c.Request().URL.Path
		}
		if publicPaths[path] || !strings.HasPrefix(path, "/api") {
			return next(c)
		}

		if _, ok := session.Principal(c); !ok {
			return unauthorized(c, "No active session. Please log in.")
		}
		if principalPaths[path] {
			return next(c)
		}
		if !session.Verified(c) {
			return unauthorized(c, "OTP verification required.")
		}
		return next(c)
	}
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, map[string]interface{}{
		"success":  false,
		"code":     "UNAUTHORIZED",
		"message":  msg,
		"redirect": "/login",
	})
}

// errorHandler renders uncaught handler errors as the standard envelope so
// no failure escapes as a bare 500 page. Unknown paths carry the login
// redirect hint, matching the router's catch-all behaviour.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := "Internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		msg = fmt.Sprintf("%v", he.Message)
	}
	if code == http.StatusNotFound {
		_ = c.JSON(code, map[string]interface{}{
			"success":  false,
			"code":     "NOT_FOUND",
			"message":  "Unknown path",
			"redirect": "/login",
		})
		return
	}
	zap.L().Error("unhandled request error", zap.String("path", c.Request().URL.Path), zap.Error(err))
	_ = c.JSON(code, map[string]interface{}{
		"success": false,
		"code":    "INTERNAL_ERROR",
		"message": msg,
	})
}
