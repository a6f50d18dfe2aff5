package domain

import "time"

// OtpGrant is one outstanding verification code issued by the embedded OTP
// provider. Grants live in memory only; they are never persisted.
type OtpGrant struct {
	Email     string    `json:"email"`
	Code      string    `json:"-"`
	Attempts  int       `json:"attempts"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the grant is past its expiry at the given instant.
func (g OtpGrant) Expired(now time.Time) bool {
	return now.After(g.ExpiresAt)
}
