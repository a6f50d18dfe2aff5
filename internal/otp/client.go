package otp

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/guonaihong/gout"
)

// NetworkError means the OTP endpoint could not be reached at all. It must
// surface to the user as a connectivity problem, not as an invalid code.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("otp endpoint unreachable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RemoteRejection means the endpoint answered but refused the request
// (success=false). The message is shown to the user verbatim.
type RemoteRejection struct {
	Message string
}

func (e *RemoteRejection) Error() string { return e.Message }

type sendResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Otp     string `json:"otp"`
}

type verifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Client consumes the external OTP contract: POST /api/send-otp and
// POST /api/verify-otp. The contract is opaque; only success, message and
// the optional debug otp field are interpreted.
type Client struct {
	endpoint string
	timeout  time.Duration
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		timeout:  10 * time.Second,
	}
}

// Send asks the endpoint to issue a code for the email. On success it
// returns the debug otp passthrough, which is empty unless the endpoint
// runs in debug mode.
func (c *Client) Send(email string) (debugOtp string, err error) {
	var rsp sendResponse
	var code int
	err = gout.POST(c.endpoint + "/api/send-otp").
		SetTimeout(c.timeout).
		SetJSON(gout.H{"email": email}).
		BindJSON(&rsp).
		Code(&code).
		Do()
	if err != nil {
		return "", &NetworkError{Err: err}
	}
	if !rsp.Success {
		msg := rsp.Message
		if msg == "" {
			msg = "Failed to send OTP. Please try again."
		}
		return "", &RemoteRejection{Message: msg}
	}
	if code != http.StatusOK {
		return "", &RemoteRejection{Message: fmt.Sprintf("unexpected status %d", code)}
	}
	return rsp.Otp, nil
}

// Verify submits the entered code for the email.
func (c *Client) Verify(email, code string) error {
	var rsp verifyResponse
	err := gout.POST(c.endpoint + "/api/verify-otp").
		SetTimeout(c.timeout).
		SetJSON(gout.H{"email": email, "otp": code}).
		BindJSON(&rsp).
		Do()
	if err != nil {
		return &NetworkError{Err: err}
	}
	if !rsp.Success {
		msg := rsp.Message
		if msg == "" {
			msg = "Invalid OTP. Please try again."
		}
		return &RemoteRejection{Message: msg}
	}
	return nil
}
