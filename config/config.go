package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Secret string `yaml:"secret" json:"secret"`
}

type OtpConfig struct {
	// Endpoint is the base URL of the OTP API. When Embedded is true the
	// built-in provider serves the same contract on this process and the
	// endpoint is ignored.
	Endpoint string     `yaml:"endpoint" json:"endpoint"`
	Embedded bool       `yaml:"embedded" json:"embedded"`
	Debug    bool       `yaml:"debug" json:"debug"`
	Expiry   int        `yaml:"expiry" json:"expiry"`
	Smtp     SmtpConfig `yaml:"smtp" json:"smtp"`
}

type SmtpConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	From     string `yaml:"from" json:"from"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System SysConfig `yaml:"system" json:"system"`
	Web    WebConfig `yaml:"web" json:"web"`
	Otp    OtpConfig `yaml:"otp" json:"otp"`
	Logger LogConfig `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "Productr",
		Location: "Asia/Kolkata",
		Workdir:  "/var/productr",
		Debug:    true,
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   1816,
		Secret: "9b6de5cc-productr-1816-9661-0f8c0c726399",
	},
	Otp: OtpConfig{
		Endpoint: "http://127.0.0.1:1816",
		Embedded: true,
		Debug:    true,
		Expiry:   300,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/productr/productr.log",
	},
}

func setEnvValue(name string, val *string) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = evalue == "true" || evalue == "1" || evalue == "on"
	}
}

func setEnvIntValue(name string, val *int) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = cast.ToInt(evalue)
	}
}

// LoadConfig reads the YAML config file when present, otherwise starts
// from defaults, and applies PRODUCTR_ environment overrides on top.
func LoadConfig(cfile string) *AppConfig {
	defaults := *DefaultAppConfig
	cfg := &defaults
	if cfile != "" {
		if _, err := os.Stat(cfile); err == nil {
			data, err := os.ReadFile(cfile)
			if err == nil {
				// unmarshal over the defaults so sections absent from the
				// file keep their default values
				_ = yaml.Unmarshal(data, cfg)
			}
		}
	}

	setEnvValue("PRODUCTR_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("PRODUCTR_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("PRODUCTR_WEB_HOST", &cfg.Web.Host)
	setEnvValue("PRODUCTR_WEB_SECRET", &cfg.Web.Secret)
	setEnvIntValue("PRODUCTR_WEB_PORT", &cfg.Web.Port)

	setEnvValue("PRODUCTR_OTP_ENDPOINT", &cfg.Otp.Endpoint)
	setEnvBoolValue("PRODUCTR_OTP_EMBEDDED", &cfg.Otp.Embedded)
	setEnvBoolValue("PRODUCTR_OTP_DEBUG", &cfg.Otp.Debug)
	setEnvIntValue("PRODUCTR_OTP_EXPIRY", &cfg.Otp.Expiry)
	setEnvValue("PRODUCTR_SMTP_HOST", &cfg.Otp.Smtp.Host)
	setEnvIntValue("PRODUCTR_SMTP_PORT", &cfg.Otp.Smtp.Port)
	setEnvValue("PRODUCTR_SMTP_USERNAME", &cfg.Otp.Smtp.Username)
	setEnvValue("PRODUCTR_SMTP_PASSWORD", &cfg.Otp.Smtp.Password)
	setEnvValue("PRODUCTR_SMTP_FROM", &cfg.Otp.Smtp.From)

	setEnvValue("PRODUCTR_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("PRODUCTR_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvValue("PRODUCTR_LOGGER_FILENAME", &cfg.Logger.Filename)

	if cfg.Otp.Expiry <= 0 {
		cfg.Otp.Expiry = 300
	}

	return cfg
}

// InitDirs creates the workdir layout used by the storage and logger layers.
func (c *AppConfig) InitDirs() {
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "data"), 0755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "logs"), 0755)
}
