package otpserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ishu524/productr/config"
)

func newTestService() *Service {
	return New(config.OtpConfig{Debug: true, Expiry: 300})
}

func TestIssueAndVerify(t *testing.T) {
	svc := newTestService()

	grant, err := svc.Issue("user@example.com")
	require.NoError(t, err)
	require.Len(t, grant.Code, 6)
	require.Equal(t, "user@example.com", grant.Email)

	require.NoError(t, svc.Verify("user@example.com", grant.Code))

	// a grant is consumed on success
	err = svc.Verify("user@example.com", grant.Code)
	var rej *Rejection
	require.ErrorAs(t, err, &rej)
	require.Equal(t, "No OTP requested for this email", rej.Message)
}

func TestIssueRequiresEmail(t *testing.T) {
	svc := newTestService()

	_, err := svc.Issue("   ")
	var rej *Rejection
	require.ErrorAs(t, err, &rej)
	require.Equal(t, "Email is required", rej.Message)
}

func TestIssueNormalizesEmailCase(t *testing.T) {
	svc := newTestService()

	grant, err := svc.Issue("User@Example.COM")
	require.NoError(t, err)
	require.NoError(t, svc.Verify("user@example.com", grant.Code))
}

func TestReissueReplacesPriorGrant(t *testing.T) {
	svc := newTestService()

	first, err := svc.Issue("user@example.com")
	require.NoError(t, err)
	second, err := svc.Issue("user@example.com")
	require.NoError(t, err)

	if first.Code != second.Code {
		err = svc.Verify("user@example.com", first.Code)
		var rej *Rejection
		require.ErrorAs(t, err, &rej)
	}
	require.NoError(t, svc.Verify("user@example.com", second.Code))
}

func TestVerifyWrongCodeCountsAttempts(t *testing.T) {
	svc := newTestService()

	grant, err := svc.Issue("user@example.com")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == grant.Code {
		wrong = "000001"
	}

	var rej *Rejection
	for i := 0; i < maxAttempts; i++ {
		err := svc.Verify("user@example.com", wrong)
		require.ErrorAs(t, err, &rej)
		require.Equal(t, "Invalid OTP. Please try again.", rej.Message)
	}

	// attempt budget exhausted; even the right code is refused now
	err = svc.Verify("user@example.com", grant.Code)
	require.ErrorAs(t, err, &rej)
	require.Equal(t, "Too many attempts. Please request a new OTP.", rej.Message)
}

func TestVerifyExpiredGrant(t *testing.T) {
	svc := newTestService()

	grant, err := svc.Issue("user@example.com")
	require.NoError(t, err)

	svc.mu.Lock()
	svc.grants[grant.Email].ExpiresAt = time.Now().Add(-time.Second)
	svc.mu.Unlock()

	err = svc.Verify("user@example.com", grant.Code)
	var rej *Rejection
	require.ErrorAs(t, err, &rej)
	require.Equal(t, "OTP expired. Please request a new one.", rej.Message)
}

func TestSweepRemovesOnlyExpiredGrants(t *testing.T) {
	svc := newTestService()

	_, err := svc.Issue("fresh@example.com")
	require.NoError(t, err)
	stale, err := svc.Issue("stale@example.com")
	require.NoError(t, err)

	svc.mu.Lock()
	svc.grants[stale.Email].ExpiresAt = time.Now().Add(-time.Minute)
	svc.mu.Unlock()

	require.Equal(t, 1, svc.Sweep())

	svc.mu.Lock()
	_, freshOK := svc.grants["fresh@example.com"]
	_, staleOK := svc.grants["stale@example.com"]
	svc.mu.Unlock()
	require.True(t, freshOK)
	require.False(t, staleOK)
}

func TestDebugFlag(t *testing.T) {
	require.True(t, New(config.OtpConfig{Debug: true}).Debug())
	require.False(t, New(config.OtpConfig{Debug: false}).Debug())
}
