package otp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newContractServer(t *testing.T, send, verify http.HandlerFunc) *httptest.Server {
	t.Helper()
	if send == nil {
		send = func(w http.ResponseWriter, r *http.Request) { http.Error(w, "unexpected call", http.StatusTeapot) }
	}
	if verify == nil {
		verify = func(w http.ResponseWriter, r *http.Request) { http.Error(w, "unexpected call", http.StatusTeapot) }
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/send-otp", send)
	mux.HandleFunc("/api/verify-otp", verify)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func jsonReply(t *testing.T, w http.ResponseWriter, body map[string]interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestSendReturnsDebugOtp(t *testing.T) {
	var gotEmail string
	ts := newContractServer(t,
		func(w http.ResponseWriter, r *http.Request) {
			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			gotEmail = req["email"]
			jsonReply(t, w, map[string]interface{}{"success": true, "otp": "123456"})
		},
		nil,
	)

	client := NewClient(ts.URL)
	debugOtp, err := client.Send("user@example.com")
	require.NoError(t, err)
	require.Equal(t, "123456", debugOtp)
	require.Equal(t, "user@example.com", gotEmail)
}

func TestSendRejectionSurfacesMessageVerbatim(t *testing.T) {
	ts := newContractServer(t,
		func(w http.ResponseWriter, r *http.Request) {
			jsonReply(t, w, map[string]interface{}{"success": false, "message": "quota exceeded"})
		},
		nil,
	)

	client := NewClient(ts.URL)
	_, err := client.Send("user@example.com")
	var rej *RemoteRejection
	require.ErrorAs(t, err, &rej)
	require.Equal(t, "quota exceeded", rej.Message)
}

func TestSendRejectionDefaultMessage(t *testing.T) {
	ts := newContractServer(t,
		func(w http.ResponseWriter, r *http.Request) {
			jsonReply(t, w, map[string]interface{}{"success": false})
		},
		nil,
	)

	client := NewClient(ts.URL)
	_, err := client.Send("user@example.com")
	var rej *RemoteRejection
	require.ErrorAs(t, err, &rej)
	require.Equal(t, "Failed to send OTP. Please try again.", rej.Message)
}

func TestUnreachableEndpointIsNetworkError(t *testing.T) {
	// closed port; nothing listens here
	client := NewClient("http://127.0.0.1:1")

	_, err := client.Send("user@example.com")
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)

	err = client.Verify("user@example.com", "123456")
	require.ErrorAs(t, err, &netErr)
}

func TestVerifySuccessAndRejection(t *testing.T) {
	ts := newContractServer(t,
		nil,
		func(w http.ResponseWriter, r *http.Request) {
			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if req["otp"] == "123456" {
				jsonReply(t, w, map[string]interface{}{"success": true})
				return
			}
			jsonReply(t, w, map[string]interface{}{"success": false, "message": "Invalid OTP. Please try again."})
		},
	)

	client := NewClient(ts.URL)
	require.NoError(t, client.Verify("user@example.com", "123456"))

	err := client.Verify("user@example.com", "999999")
	var rej *RemoteRejection
	require.ErrorAs(t, err, &rej)
	require.Equal(t, "Invalid OTP. Please try again.", rej.Message)
}
