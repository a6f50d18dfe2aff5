package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// InitRouter registers every admin API route against the current web
// server. Call after webserver.Init.
func InitRouter() {
	registerAuthRoutes()
	registerOtpProviderRoutes()
	registerDashboardRoutes()
	registerManagerRoutes()
}

type apiError struct {
	Success bool        `json:"success"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Detail  interface{} `json:"detail,omitempty"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// okMsg carries a transient notice alongside the data; the client shows it
// as the auto-dismissing toast.
func okMsg(c echo.Context, msg string, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": msg,
		"data":    data,
	})
}

func fail(c echo.Context, status int, code, msg string, detail interface{}) error {
	return c.JSON(status, apiError{
		Success: false,
		Code:    code,
		Message: msg,
		Detail:  detail,
	})
}
