// Package config собирает настройки клиента из defaults, .env, config.yaml,
// переменных окружения MODIFY_* и флагов командной строки.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "MODIFY"

	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"

	FormatText = "text"
	FormatJSON = "json"
)

// Флаги, которые привязываются к ключам конфигурации
const (
	FlagConfig     = "config"
	FlagAPIURL     = "api-url"
	FlagStorage    = "storage"
	FlagDB         = "db"
	FlagPassphrase = "passphrase"
	FlagLogLevel   = "log-level"
	FlagLogFormat  = "log-format"
	FlagNoBrowser  = "no-browser"
)

var flagKeys = map[string]string{
	FlagAPIURL:     "api.base_url",
	FlagStorage:    "storage.driver",
	FlagDB:         "storage.path",
	FlagPassphrase: "storage.passphrase",
	FlagLogLevel:   "logging.level",
	FlagLogFormat:  "logging.format",
}

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
	Session SessionConfig `mapstructure:"session"`
	Browser BrowserConfig `mapstructure:"browser"`
}

type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"` // запросов в секунду, 0 = без ограничения
	RateBurst int           `mapstructure:"rate_burst"`
}

type StorageConfig struct {
	Driver     string `mapstructure:"driver"`
	Path       string `mapstructure:"path"`
	Passphrase string `mapstructure:"passphrase"` // пусто = токен хранится без шифрования
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type SessionConfig struct {
	RefreshSkew   time.Duration `mapstructure:"refresh_skew"`
	LogoutTimeout time.Duration `mapstructure:"logout_timeout"`
}

type BrowserConfig struct {
	Open bool `mapstructure:"open"`
}

// SlogLevel parses Level, falling back to warn for an empty value.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	if strings.TrimSpace(l.Level) == "" {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("unknown logging.level %q: %w", l.Level, err)
	}
	return level, nil
}

// InitFlags регистрирует флаги в fs (без парсинга)
func InitFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "Path to config file (default ./config.yaml or ~/.config/modify/config.yaml)")
	fs.String(FlagAPIURL, "", "Modify API base URL")
	fs.String(FlagStorage, "", "Storage driver (bolt|sqlite)")
	fs.String(FlagDB, "", "Path to local database")
	fs.String(FlagPassphrase, "", "Passphrase used to encrypt the stored token")
	fs.String(FlagLogLevel, "", "Log level (debug|info|warn|error)")
	fs.String(FlagLogFormat, "", "Log format (text|json)")
	fs.Bool(FlagNoBrowser, false, "Print OAuth URLs instead of opening a browser")
}

// DefaultDBPath returns the database path used when storage.path is unset.
func DefaultDBPath(driver string) string {
	name := "modify.db"
	if driver == DriverSQLite {
		name = "modify.sqlite"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".config", "modify", name)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8000/api")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.rate_limit", 0.0)
	v.SetDefault("api.rate_burst", 5)
	v.SetDefault("storage.driver", DriverBolt)
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.passphrase", "")
	v.SetDefault("session.refresh_skew", 60*time.Second)
	v.SetDefault("session.logout_timeout", 5*time.Second)
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", FormatText)
	v.SetDefault("browser.open", true)
}

// Load reads configuration. flags may be nil; only flags that were changed
// on the command line override lower layers.
func Load(flags *pflag.FlagSet) (*Config, error) {
	// .env не переопределяет уже выставленные переменные окружения
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	configFile := ""
	if flags != nil {
		configFile, _ = flags.GetString(FlagConfig)
	}
	if configFile == "" {
		configFile = os.Getenv(EnvPrefix + "_CONFIG")
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "modify"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if flags != nil {
		if noBrowser, err := flags.GetBool(FlagNoBrowser); err == nil && noBrowser {
			cfg.Browser.Open = false
		}
	}

	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = DefaultDBPath(cfg.Storage.Driver)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail later in less obvious ways.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverBolt, DriverSQLite:
	default:
		return fmt.Errorf("unknown storage driver %q (expected %s or %s)", c.Storage.Driver, DriverBolt, DriverSQLite)
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api.base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api.base_url %q: expected http(s)://host", c.API.BaseURL)
	}

	if c.API.Timeout < 0 {
		return errors.New("api.timeout must not be negative")
	}
	if c.API.RateLimit < 0 {
		return errors.New("api.rate_limit must not be negative")
	}
	if c.Session.RefreshSkew < 0 {
		return errors.New("session.refresh_skew must not be negative")
	}
	if c.Session.LogoutTimeout < 0 {
		return errors.New("session.logout_timeout must not be negative")
	}

	switch c.Logging.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("unknown logging.format %q (expected %s or %s)", c.Logging.Format, FormatText, FormatJSON)
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	return nil
}
