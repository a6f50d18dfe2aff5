package session

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// Name is the cookie the session rides in.
	Name = "productr_session"

	principalKey = "principal"
	verifiedKey  = "otp_verified"
)

// NewCookieStore builds the session store from the configured web secret.
// Auth and encryption keys are stretched from the secret so the config
// carries one value, not two raw keys.
func NewCookieStore(secret string) *sessions.CookieStore {
	authKey := pbkdf2.Key([]byte(secret), []byte("productr-auth"), 4096, 32, sha256.New)
	encKey := pbkdf2.Key([]byte(secret), []byte("productr-enc"), 4096, 32, sha256.New)
	store := sessions.NewCookieStore(authKey, encKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   0, // session-scoped, dropped when the browser closes
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Establish stores the identifier as the active session's principal. A new
// principal always starts unverified.
func Establish(c echo.Context, identifier string) error {
	sess, err := session.Get(Name, c)
	if err != nil {
		return err
	}
	sess.Values[principalKey] = identifier
	sess.Values[verifiedKey] = false
	return sess.Save(c.Request(), c.Response())
}

// Principal reads the active session's principal back; ok is false when the
// session carries none.
func Principal(c echo.Context) (string, bool) {
	sess, err := session.Get(Name, c)
	if err != nil {
		return "", false
	}
	v, ok := sess.Values[principalKey].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// MarkVerified records a successful OTP verification for the principal.
func MarkVerified(c echo.Context) error {
	sess, err := session.Get(Name, c)
	if err != nil {
		return err
	}
	sess.Values[verifiedKey] = true
	return sess.Save(c.Request(), c.Response())
}

// Verified reports whether the session's principal has passed OTP
// verification. Protected views require both a principal and this flag.
func Verified(c echo.Context) bool {
	sess, err := session.Get(Name, c)
	if err != nil {
		return false
	}
	v, _ := sess.Values[verifiedKey].(bool)
	return v
}

// Clear removes the session entirely (logout).
func Clear(c echo.Context) error {
	sess, err := session.Get(Name, c)
	if err != nil {
		return err
	}
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}
