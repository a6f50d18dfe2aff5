// Package otpserver is the built-in provider of the OTP contract the auth
// gate consumes. It exists so the service can run self-contained; pointing
// the otp endpoint config at any other implementation of the same contract
// works just as well.
package otpserver

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/ishu524/productr/config"
	"github.com/ishu524/productr/internal/domain"
)

const maxAttempts = 5

// Rejection is a contract-level refusal; its message goes back to the
// caller as the success=false message body.
type Rejection struct {
	Message string
}

func (e *Rejection) Error() string { return e.Message }

// Service keeps outstanding grants in memory. Grants are short-lived and
// worthless across restarts, so nothing here touches durable storage.
type Service struct {
	mu     sync.Mutex
	grants map[string]*domain.OtpGrant
	cfg    config.OtpConfig
}

func New(cfg config.OtpConfig) *Service {
	return &Service{
		grants: make(map[string]*domain.OtpGrant),
		cfg:    cfg,
	}
}

// Issue generates a fresh 6-digit code for the email, replacing any prior
// grant, and mails it when SMTP is configured. Mail failure does not void
// the grant; the debug passthrough is the fallback delivery path.
func (s *Service) Issue(email string) (*domain.OtpGrant, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, &Rejection{Message: "Email is required"}
	}

	code, err := generateCode()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	grant := &domain.OtpGrant{
		Email:     email,
		Code:      code,
		ExpiresAt: now.Add(time.Duration(s.cfg.Expiry) * time.Second),
		CreatedAt: now,
	}

	s.mu.Lock()
	s.grants[email] = grant
	s.mu.Unlock()

	if s.cfg.Smtp.Host != "" {
		if err := s.mail(email, code); err != nil {
			zap.L().Warn("otp mail delivery failed", zap.String("email", email), zap.Error(err))
		}
	}
	return grant, nil
}

// Verify checks the submitted code against the grant for the email. A
// successful verification consumes the grant.
func (s *Service) Verify(email, code string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	s.mu.Lock()
	defer s.mu.Unlock()

	grant, ok := s.grants[email]
	if !ok {
		return &Rejection{Message: "No OTP requested for this email"}
	}
	if grant.Expired(time.Now()) {
		delete(s.grants, email)
		return &Rejection{Message: "OTP expired. Please request a new one."}
	}
	if grant.Attempts >= maxAttempts {
		delete(s.grants, email)
		return &Rejection{Message: "Too many attempts. Please request a new OTP."}
	}
	if grant.Code != code {
		grant.Attempts++
		return &Rejection{Message: "Invalid OTP. Please try again."}
	}

	delete(s.grants, email)
	return nil
}

// Debug reports whether issued codes should be echoed back in the send
// response (the explicit debug/no-email fallback surface).
func (s *Service) Debug() bool {
	return s.cfg.Debug
}

// Sweep drops expired grants; wired to the app scheduler.
func (s *Service) Sweep() int {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for email, grant := range s.grants {
		if grant.Expired(now) {
			delete(s.grants, email)
			removed++
		}
	}
	return removed
}

func (s *Service) mail(email, code string) error {
	m := gomail.NewMessage()
	from := s.cfg.Smtp.From
	if from == "" {
		from = s.cfg.Smtp.Username
	}
	m.SetHeader("From", from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Your Productr verification code")
	m.SetBody("text/plain", fmt.Sprintf(
		"Your verification code is %s. It expires in %d minutes.",
		code, s.cfg.Expiry/60))

	d := gomail.NewDialer(s.cfg.Smtp.Host, s.cfg.Smtp.Port, s.cfg.Smtp.Username, s.cfg.Smtp.Password)
	return d.DialAndSend(m)
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
