package app

import (
	"github.com/gorilla/sessions"
	"github.com/robfig/cron/v3"

	"github.com/ishu524/productr/config"
	"github.com/ishu524/productr/internal/catalog"
	"github.com/ishu524/productr/internal/otp"
	"github.com/ishu524/productr/internal/otpserver"
)

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// CatalogProvider provides the product catalog store
type CatalogProvider interface {
	Catalog() *catalog.Store
}

// SessionStoreProvider provides the cookie session store backing the auth gate
type SessionStoreProvider interface {
	SessionStore() *sessions.CookieStore
}

// OtpProvider provides the OTP client and, in embedded mode, the built-in
// provider service (nil otherwise)
type OtpProvider interface {
	OtpClient() *otp.Client
	OtpServer() *otpserver.Service
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context.
// Handlers should depend on specific providers or this combined interface.
type AppContext interface {
	ConfigProvider
	CatalogProvider
	SessionStoreProvider
	OtpProvider
	SchedulerProvider
}
