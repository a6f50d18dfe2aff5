package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/bwmarrin/snowflake"
	"github.com/gorilla/sessions"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ishu524/productr/config"
	"github.com/ishu524/productr/internal/catalog"
	"github.com/ishu524/productr/internal/otp"
	"github.com/ishu524/productr/internal/otpserver"
	"github.com/ishu524/productr/internal/session"
)

type Application struct {
	appConfig    *config.AppConfig
	catalogStore *catalog.Store
	boltBackend  *catalog.BoltBackend
	sessionStore *sessions.CookieStore
	otpClient    *otp.Client
	otpService   *otpserver.Service
	sched        *cron.Cron
	idNode       *snowflake.Node
}

// Ensure Application implements all interfaces
var (
	_ ConfigProvider       = (*Application)(nil)
	_ CatalogProvider      = (*Application)(nil)
	_ SessionStoreProvider = (*Application)(nil)
	_ OtpProvider          = (*Application)(nil)
	_ SchedulerProvider    = (*Application)(nil)
	_ AppContext           = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) Catalog() *catalog.Store {
	return a.catalogStore
}

// OverrideCatalog replaces the application's catalog store (used in tests).
func (a *Application) OverrideCatalog(s *catalog.Store) {
	a.catalogStore = s
}

func (a *Application) SessionStore() *sessions.CookieStore {
	return a.sessionStore
}

func (a *Application) OtpClient() *otp.Client {
	return a.otpClient
}

// OverrideOtpClient repoints the OTP client (used in tests).
func (a *Application) OverrideOtpClient(c *otp.Client) {
	a.otpClient = c
}

func (a *Application) OtpServer() *otpserver.Service {
	return a.otpService
}

func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

func (a *Application) Init(cfg *config.AppConfig) error {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	initLogger(cfg)
	cfg.InitDirs()

	a.idNode, err = snowflake.NewNode(1)
	if err != nil {
		return err
	}

	backend, err := catalog.NewBoltBackend(filepath.Join(cfg.System.Workdir, "data", "catalog.db"))
	if err != nil {
		return err
	}
	a.boltBackend = backend
	a.catalogStore = catalog.NewStore(backend, a.idNode)
	zap.S().Infof("catalog storage ready, workdir: %s", cfg.System.Workdir)

	a.sessionStore = session.NewCookieStore(cfg.Web.Secret)

	endpoint := cfg.Otp.Endpoint
	if cfg.Otp.Embedded {
		a.otpService = otpserver.New(cfg.Otp)
		// embedded mode talks to this process over the same public contract
		endpoint = fmt.Sprintf("http://127.0.0.1:%d", cfg.Web.Port)
	}
	a.otpClient = otp.NewClient(endpoint)

	a.initJob()
	return nil
}

func initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.OutputPaths = []string{"stdout"}
	if cfg.Logger.FileEnable {
		zapConfig.OutputPaths = append(zapConfig.OutputPaths, cfg.Logger.Filename)
	}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.boltBackend != nil {
		_ = a.boltBackend.Close()
	}
	_ = zap.L().Sync()
}
