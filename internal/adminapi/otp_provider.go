package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ishu524/productr/internal/otpserver"
	"github.com/ishu524/productr/internal/webserver"
)

// The embedded OTP provider speaks the external contract verbatim:
// {success, message?, otp?} — not the admin envelope. Anything consuming
// the contract must not be able to tell this provider from a remote one.

type otpSendPayload struct {
	Email string `json:"email" form:"email"`
}

type otpVerifyPayload struct {
	Email string `json:"email" form:"email"`
	Otp   string `json:"otp" form:"otp"`
}

func registerOtpProviderRoutes() {
	webserver.ApiPOST("/send-otp", providerSendOtp)
	webserver.ApiPOST("/verify-otp", providerVerifyOtp)
}

func providerService(c echo.Context) *otpserver.Service {
	return webserver.GetAppContext(c).OtpServer()
}

func providerSendOtp(c echo.Context) error {
	svc := providerService(c)
	if svc == nil {
		return contractReject(c, http.StatusNotFound, "OTP provider not enabled")
	}

	var payload otpSendPayload
	if err := c.Bind(&payload); err != nil {
		return contractReject(c, http.StatusBadRequest, "Invalid request body")
	}

	grant, err := svc.Issue(payload.Email)
	if err != nil {
		if rej, ok := err.(*otpserver.Rejection); ok {
			return contractReject(c, http.StatusBadRequest, rej.Message)
		}
		zap.L().Error("otp issue failed", zap.Error(err))
		return contractReject(c, http.StatusInternalServerError, "Failed to send OTP")
	}

	rsp := map[string]interface{}{
		"success": true,
		"message": "OTP sent",
	}
	if svc.Debug() {
		rsp["otp"] = grant.Code
	}
	return c.JSON(http.StatusOK, rsp)
}

func providerVerifyOtp(c echo.Context) error {
	svc := providerService(c)
	if svc == nil {
		return contractReject(c, http.StatusNotFound, "OTP provider not enabled")
	}

	var payload otpVerifyPayload
	if err := c.Bind(&payload); err != nil {
		return contractReject(c, http.StatusBadRequest, "Invalid request body")
	}

	if err := svc.Verify(payload.Email, payload.Otp); err != nil {
		if rej, ok := err.(*otpserver.Rejection); ok {
			return contractReject(c, http.StatusOK, rej.Message)
		}
		zap.L().Error("otp verify failed", zap.Error(err))
		return contractReject(c, http.StatusInternalServerError, "Verification failed")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "OTP verified",
	})
}

func contractReject(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]interface{}{
		"success": false,
		"message": msg,
	})
}
