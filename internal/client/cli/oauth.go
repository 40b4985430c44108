package cli

import (
	"context"
	"fmt"
	"strings"
)

func (c *Cli) runOAuthProviders(ctx context.Context) error {
	c.header("OAuth Providers")

	providers, err := c.session.OAuthProviders(ctx)
	if err != nil {
		return c.explain(err)
	}
	if len(providers) == 0 {
		c.io.Println("No OAuth providers are configured on the server.")
		return nil
	}
	for _, p := range providers {
		c.io.Printf("  - %s\n", p)
	}
	return nil
}

// runOAuthLogin открывает страницу авторизации. Ошибки показывает Notifier,
// сессия при этом не меняется.
func (c *Cli) runOAuthLogin(ctx context.Context, provider string) error {
	c.header("OAuth Login")

	provider = strings.ToLower(strings.TrimSpace(provider))
	var before int64
	if c.nav != nil {
		before = c.nav.Redirects()
	}

	c.session.OAuthLogin(ctx, provider)

	// адрес авторизации не получен: причину уже показал Notifier
	if c.nav != nil && c.nav.Redirects() == before {
		return fmt.Errorf("oauth login with %q was not started", provider)
	}

	c.io.Println()
	c.io.Println("After signing in, copy the callback URL from the browser and run:")
	c.io.Println("  modify oauth complete '<callback-url>'")
	return nil
}

func (c *Cli) runOAuthComplete(ctx context.Context, callback string) error {
	c.header("OAuth Login")

	var err error
	if callback == "" {
		callback, err = c.io.ReadInput("Callback URL or token: ")
		if err != nil {
			return fmt.Errorf("failed to read callback: %w", err)
		}
	}

	if err := c.session.CompleteOAuth(ctx, callback); err != nil {
		return c.explain(err)
	}

	if user := c.session.User(); user != nil {
		c.success("Logged in as %s via %s", user.Name(), user.AuthProvider)
	} else {
		c.success("Login successful!")
	}
	return nil
}
