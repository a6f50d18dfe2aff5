package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig("")
	require.Equal(t, "Productr", cfg.System.Appid)
	require.Equal(t, 1816, cfg.Web.Port)
	require.True(t, cfg.Otp.Embedded)
	require.Equal(t, 300, cfg.Otp.Expiry)
}

func TestLoadConfigFromYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "productr.yml")
	content := `
system:
  appid: Productr
  workdir: /tmp/productr
web:
  host: 127.0.0.1
  port: 9090
  secret: file-secret
otp:
  embedded: false
  endpoint: https://otp.example.com
  expiry: 120
logger:
  mode: production
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := LoadConfig(path)
	require.Equal(t, 9090, cfg.Web.Port)
	require.Equal(t, "file-secret", cfg.Web.Secret)
	require.False(t, cfg.Otp.Embedded)
	require.Equal(t, "https://otp.example.com", cfg.Otp.Endpoint)
	require.Equal(t, 120, cfg.Otp.Expiry)
	require.Equal(t, "production", cfg.Logger.Mode)
}

func TestPartialYamlKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "productr.yml")
	require.NoError(t, os.WriteFile(path, []byte("web:\n  port: 9090\n"), 0644))

	cfg := LoadConfig(path)
	require.Equal(t, 9090, cfg.Web.Port)

	// sections absent from the file keep their defaults
	require.Equal(t, "/var/productr", cfg.System.Workdir)
	require.Equal(t, "Asia/Kolkata", cfg.System.Location)
	require.Equal(t, "development", cfg.Logger.Mode)
	require.True(t, cfg.Otp.Embedded)
	require.Equal(t, "0.0.0.0", cfg.Web.Host)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PRODUCTR_WEB_PORT", "7070")
	t.Setenv("PRODUCTR_OTP_DEBUG", "false")
	t.Setenv("PRODUCTR_OTP_ENDPOINT", "https://env.example.com")

	cfg := LoadConfig("")
	require.Equal(t, 7070, cfg.Web.Port)
	require.False(t, cfg.Otp.Debug)
	require.Equal(t, "https://env.example.com", cfg.Otp.Endpoint)
}

func TestExpiryFallsBackWhenUnset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "productr.yml")
	require.NoError(t, os.WriteFile(path, []byte("otp:\n  expiry: 0\n"), 0644))

	cfg := LoadConfig(path)
	require.Equal(t, 300, cfg.Otp.Expiry)
}
