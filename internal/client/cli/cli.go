package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pterm/pterm"

	"github.com/iudanet/modify/internal/client/auth"
	"github.com/iudanet/modify/internal/client/config"
	"github.com/iudanet/modify/internal/client/iocli"
	"github.com/iudanet/modify/internal/client/storage"
)

// PasswordEnv переменная окружения с паролем для неинтерактивного входа
const PasswordEnv = "MODIFY_PASSWORD"

type Cli struct {
	io      iocli.IO
	session *auth.Session
	cfg     *config.Config
	meta    storage.MetadataStorage // может быть nil
	nav     *Navigator              // может быть nil
}

func New(io iocli.IO, session *auth.Session, cfg *config.Config, meta storage.MetadataStorage) *Cli {
	return &Cli{
		io:      io,
		session: session,
		cfg:     cfg,
		meta:    meta,
	}
}

func (c *Cli) header(title string) {
	c.io.Println(fmt.Sprintf("=== %s ===", title))
	c.io.Println()
}

func (c *Cli) success(format string, a ...any) {
	c.io.Printf("%s", pterm.Success.Sprintfln(format, a...))
}

func (c *Cli) info(format string, a ...any) {
	c.io.Printf("%s", pterm.Info.Sprintfln(format, a...))
}

func (c *Cli) warning(format string, a ...any) {
	c.io.Printf("%s", pterm.Warning.Sprintfln(format, a...))
}

// readSecret читает пароль: сначала из переменной окружения env (если задана), затем интерактивно
func (c *Cli) readSecret(env, prompt string) (string, error) {
	if env != "" {
		if v := os.Getenv(env); v != "" {
			return v, nil
		}
	}
	password, err := c.io.ReadPassword(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}

// readNewPassword запрашивает новый пароль с подтверждением
func (c *Cli) readNewPassword(prompt string) (string, error) {
	password, err := c.readSecret(PasswordEnv, prompt)
	if err != nil {
		return "", err
	}
	if os.Getenv(PasswordEnv) != "" {
		return password, nil
	}

	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}
	if password != confirm {
		return "", fmt.Errorf("passwords do not match")
	}
	return password, nil
}

// readOptional возвращает nil для пустого ввода
func (c *Cli) readOptional(prompt string) (*string, error) {
	v, err := c.io.ReadInput(prompt)
	if err != nil {
		return nil, err
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	return &v, nil
}

// lastEmail email последнего успешного входа или пустая строка
func (c *Cli) lastEmail(ctx context.Context) string {
	if c.meta == nil {
		return ""
	}
	v, err := c.meta.GetMetadata(ctx, storage.MetaLastEmail)
	if err != nil {
		if !errors.Is(err, storage.ErrMetadataNotFound) {
			slog.Debug("failed to read last email", "error", err)
		}
		return ""
	}
	return string(v)
}

func (c *Cli) rememberEmail(ctx context.Context, email string) {
	if c.meta == nil {
		return
	}
	if err := c.meta.SetMetadata(ctx, storage.MetaLastEmail, []byte(email)); err != nil {
		slog.Warn("failed to remember email", "error", err)
	}
}

// readEmail спрашивает email, предлагая последний использованный
func (c *Cli) readEmail(ctx context.Context) (string, error) {
	last := c.lastEmail(ctx)
	prompt := "Email: "
	if last != "" {
		prompt = fmt.Sprintf("Email [%s]: ", last)
	}
	email, err := c.io.ReadInput(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read email: %w", err)
	}
	email = strings.TrimSpace(email)
	if email == "" {
		email = last
	}
	return email, nil
}
