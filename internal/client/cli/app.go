package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/iudanet/modify/internal/client/api"
	"github.com/iudanet/modify/internal/client/auth"
	"github.com/iudanet/modify/internal/client/config"
	"github.com/iudanet/modify/internal/client/iocli"
	"github.com/iudanet/modify/internal/client/storage"
	"github.com/iudanet/modify/internal/client/storage/boltdb"
	"github.com/iudanet/modify/internal/client/storage/sqlite"
)

// Store объединяет все хранилища клиента; обе реализации (bolt, sqlite) его удовлетворяют
type Store interface {
	storage.AuthStorage
	storage.MetadataStorage
	storage.CookieStorage
	Close() error
}

// NewLogger строит slog логгер по настройкам logging.*
func NewLogger(cfg config.LoggingConfig, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == config.FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), nil
}

// OpenStore открывает выбранный в конфигурации backend, создавая каталог БД при необходимости
func OpenStore(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	switch cfg.Driver {
	case config.DriverSQLite:
		st, err := sqlite.New(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		return st, nil
	case config.DriverBolt, "":
		st, err := boltdb.New(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// Setup собирает зависимости клиента: хранилище, HTTP клиент с persistent cookie jar,
// хранилище токена и сессию. Возвращенная функция закрывает хранилище.
func Setup(ctx context.Context, cfg *config.Config, stdio iocli.IO, logger *slog.Logger) (*Cli, func() error, error) {
	store, err := OpenStore(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}

	cli, err := setupWithStore(ctx, cfg, stdio, logger, store)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return cli, store.Close, nil
}

func setupWithStore(ctx context.Context, cfg *config.Config, stdio iocli.IO, logger *slog.Logger, store Store) (*Cli, error) {
	jar, err := api.NewPersistentJar(ctx, store, cfg.API.BaseURL, logger)
	if err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.API.BaseURL,
		api.WithCookieJar(jar),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRateLimit(cfg.API.RateLimit, cfg.API.RateBurst),
	)

	tokens, err := newTokenStore(ctx, store, cfg.Storage.Passphrase)
	if err != nil {
		return nil, err
	}

	nav := NewNavigator(stdio, cfg.Browser.Open)
	session, err := auth.NewSession(ctx, client, tokens,
		auth.WithNavigator(nav),
		auth.WithNotifier(NewNotifier(stdio, logger)),
		auth.WithLogger(logger),
		auth.WithRefreshSkew(cfg.Session.RefreshSkew),
		auth.WithLogoutTimeout(cfg.Session.LogoutTimeout),
	)
	if err != nil {
		return nil, err
	}

	c := New(stdio, session, cfg, store)
	c.nav = nav
	return c, nil
}

func newTokenStore(ctx context.Context, store Store, passphrase string) (*auth.TokenStore, error) {
	if passphrase == "" {
		return auth.NewTokenStore(store, nil), nil
	}
	sealer, err := auth.NewSealerFromPassphrase(ctx, store, passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token encryption: %w", err)
	}
	return auth.NewTokenStore(store, sealer), nil
}
