package adminapi

import (
	"net/http"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ishu524/productr/internal/otp"
	"github.com/ishu524/productr/internal/session"
	"github.com/ishu524/productr/internal/webserver"
)

type loginPayload struct {
	Email string `json:"email" form:"email"`
}

type verifyPayload struct {
	Otp string `json:"otp" form:"otp"`
}

func registerAuthRoutes() {
	webserver.ApiPOST("/login", login)
	webserver.ApiPOST("/otp/send", sendOtp)
	webserver.ApiPOST("/otp/verify", verifyOtp)
	webserver.ApiPOST("/logout", logout)
	webserver.ApiGET("/session", sessionInfo)
}

// inflight guards one OTP request per principal per action, the server-side
// equivalent of disabling the send/verify button while a call is pending.
var inflight sync.Map

func acquire(key string) (release func(), ok bool) {
	if _, loaded := inflight.LoadOrStore(key, struct{}{}); loaded {
		return nil, false
	}
	return func() { inflight.Delete(key) }, true
}

// login establishes the session principal and performs the initial OTP
// send, the same call the resend path makes.
func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login request", err.Error())
	}

	email := strings.TrimSpace(payload.Email)
	if email == "" {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Please enter your email or phone number", nil)
	}

	if err := session.Establish(c, email); err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to establish session", err.Error())
	}

	return dispatchSend(c, email)
}

// sendOtp is the resend operation; identical to the initial send.
func sendOtp(c echo.Context) error {
	email, _ := session.Principal(c)
	return dispatchSend(c, email)
}

func dispatchSend(c echo.Context, email string) error {
	release, ok := acquire("send:" + email)
	if !ok {
		return fail(c, http.StatusTooManyRequests, "BUSY", "An OTP request is already in progress", nil)
	}
	defer release()

	appCtx := webserver.GetAppContext(c)
	debugOtp, err := appCtx.OtpClient().Send(email)
	if err != nil {
		return failOtp(c, err, "Failed to send OTP. Please try again.")
	}

	data := map[string]interface{}{"email": email, "otpSent": true}
	if debugOtp != "" {
		// explicit debug/no-email fallback surface
		data["otp"] = debugOtp
	}
	return okMsg(c, "OTP has been sent to your email address", data)
}

func verifyOtp(c echo.Context) error {
	var payload verifyPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse verify request", err.Error())
	}

	code := strings.TrimSpace(payload.Otp)
	if !validOtpCode(code) {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Please enter complete 6-digit OTP", nil)
	}

	email, _ := session.Principal(c)
	release, ok := acquire("verify:" + email)
	if !ok {
		return fail(c, http.StatusTooManyRequests, "BUSY", "A verification is already in progress", nil)
	}
	defer release()

	appCtx := webserver.GetAppContext(c)
	if err := appCtx.OtpClient().Verify(email, code); err != nil {
		return failOtp(c, err, "Invalid OTP. Please try again.")
	}

	if err := session.MarkVerified(c); err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to update session", err.Error())
	}

	zap.S().Infof("principal %s verified", email)
	return okMsg(c, "OTP verified", map[string]interface{}{"redirect": "/home"})
}

func logout(c echo.Context) error {
	if err := session.Clear(c); err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to clear session", err.Error())
	}
	return okMsg(c, "Logged out", map[string]interface{}{"redirect": "/login"})
}

func sessionInfo(c echo.Context) error {
	principal, _ := session.Principal(c)
	return ok(c, map[string]interface{}{
		"principal": principal,
		"verified":  session.Verified(c),
	})
}

// failOtp keeps the connectivity failure message distinct from an
// invalid-code rejection.
func failOtp(c echo.Context, err error, fallback string) error {
	switch e := err.(type) {
	case *otp.NetworkError:
		zap.L().Warn("otp endpoint unreachable", zap.Error(e))
		return fail(c, http.StatusBadGateway, "NETWORK_ERROR", "Failed to connect to OTP service. Please try again.", nil)
	case *otp.RemoteRejection:
		return fail(c, http.StatusBadRequest, "OTP_REJECTED", e.Message, nil)
	default:
		return fail(c, http.StatusInternalServerError, "OTP_ERROR", fallback, nil)
	}
}

func validOtpCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
