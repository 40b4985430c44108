package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate уводит Load от пользовательских config.yaml и .env
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	for _, key := range []string{
		"MODIFY_CONFIG", "MODIFY_API_BASE_URL", "MODIFY_STORAGE_DRIVER",
		"MODIFY_STORAGE_PATH", "MODIFY_LOGGING_LEVEL", "MODIFY_SESSION_REFRESH_SKEW",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return dir
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	InitFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/api", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Zero(t, cfg.API.RateLimit)
	assert.Equal(t, DriverBolt, cfg.Storage.Driver)
	assert.Equal(t, filepath.Join(home, ".config", "modify", "modify.db"), cfg.Storage.Path)
	assert.Empty(t, cfg.Storage.Passphrase)
	assert.Equal(t, 60*time.Second, cfg.Session.RefreshSkew)
	assert.Equal(t, 5*time.Second, cfg.Session.LogoutTimeout)
	assert.Equal(t, FormatText, cfg.Logging.Format)
	assert.True(t, cfg.Browser.Open)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := isolate(t)
	yaml := `
api:
  base_url: https://modify.example.com/api
  timeout: 10s
  rate_limit: 2.5
storage:
  driver: sqlite
session:
  refresh_skew: 2m
logging:
  level: debug
  format: json
browser:
  open: false
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "https://modify.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.InDelta(t, 2.5, cfg.API.RateLimit, 0.001)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, filepath.Join(dir, ".config", "modify", "modify.sqlite"), cfg.Storage.Path)
	assert.Equal(t, 2*time.Minute, cfg.Session.RefreshSkew)
	assert.Equal(t, FormatJSON, cfg.Logging.Format)
	assert.False(t, cfg.Browser.Open)

	level, err := cfg.Logging.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("api:\n  base_url: https://file.example.com/api\n"), 0o600))
	t.Setenv("MODIFY_API_BASE_URL", "https://env.example.com/api")
	t.Setenv("MODIFY_SESSION_REFRESH_SKEW", "15s")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Session.RefreshSkew)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	dir := isolate(t)
	t.Setenv("MODIFY_API_BASE_URL", "https://env.example.com/api")
	dbPath := filepath.Join(dir, "custom.db")

	cfg, err := Load(newFlags(t,
		"--api-url", "https://flag.example.com/api",
		"--db", dbPath,
		"--no-browser",
	))
	require.NoError(t, err)
	assert.Equal(t, "https://flag.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, dbPath, cfg.Storage.Path)
	assert.False(t, cfg.Browser.Open)
}

func TestLoad_UnsetFlagsKeepLowerLayers(t *testing.T) {
	isolate(t)
	t.Setenv("MODIFY_API_BASE_URL", "https://env.example.com/api")

	cfg, err := Load(newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com/api", cfg.API.BaseURL)
	assert.True(t, cfg.Browser.Open)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("MODIFY_STORAGE_DRIVER=sqlite\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("MODIFY_STORAGE_DRIVER") })

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
}

func TestLoad_ExplicitConfigMissing(t *testing.T) {
	dir := isolate(t)

	_, err := Load(newFlags(t, "--config", filepath.Join(dir, "nope.yaml")))
	require.Error(t, err)
}

func TestLoad_InvalidDriver(t *testing.T) {
	isolate(t)

	_, err := Load(newFlags(t, "--storage", "redis"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage driver")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			API:     APIConfig{BaseURL: "http://localhost:8000/api", Timeout: time.Second},
			Storage: StorageConfig{Driver: DriverBolt, Path: "x.db"},
			Logging: LoggingConfig{Level: "info", Format: FormatText},
			Session: SessionConfig{RefreshSkew: time.Minute, LogoutTimeout: time.Second},
		}
	}

	tests := []struct {
		mutate  func(c *Config)
		name    string
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "https url", mutate: func(c *Config) { c.API.BaseURL = "https://api.modify.gg/api" }},
		{name: "ftp url", mutate: func(c *Config) { c.API.BaseURL = "ftp://host/api" }, wantErr: true},
		{name: "no host", mutate: func(c *Config) { c.API.BaseURL = "http://" }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "postgres" }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.API.Timeout = -time.Second }, wantErr: true},
		{name: "negative rate", mutate: func(c *Config) { c.API.RateLimit = -1 }, wantErr: true},
		{name: "negative skew", mutate: func(c *Config) { c.Session.RefreshSkew = -time.Second }, wantErr: true},
		{name: "zero skew disables refresh", mutate: func(c *Config) { c.Session.RefreshSkew = 0 }},
		{name: "negative logout timeout", mutate: func(c *Config) { c.Session.LogoutTimeout = -1 }, wantErr: true},
		{name: "bad format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: true},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
