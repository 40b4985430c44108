package cli

import (
	"context"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/iudanet/modify/internal/validation"
)

func (c *Cli) runAccountsList(ctx context.Context) error {
	c.header("Connected Accounts")

	if !c.session.Snapshot().HasToken {
		return errNotLoggedIn
	}

	accounts, err := c.session.ConnectedAccounts(ctx)
	if err != nil {
		return c.explain(err)
	}
	if len(accounts) == 0 {
		c.io.Println("No connected accounts.")
		return nil
	}

	data := pterm.TableData{{"Provider", "Email", "Connected"}}
	for _, a := range accounts {
		connected := notSet
		if a.ConnectedAt != nil {
			connected = a.ConnectedAt.Local().Format(time.DateOnly)
		}
		email := a.Email
		if email == "" {
			email = notSet
		}
		data = append(data, []string{string(a.Provider), email, connected})
	}
	c.renderTable(data, true)
	return nil
}

func (c *Cli) runAccountsDisconnect(ctx context.Context, provider string) error {
	c.header("Disconnect Account")

	provider = strings.ToLower(strings.TrimSpace(provider))
	if err := validation.ValidateProvider(provider); err != nil {
		return err
	}
	if !c.session.Snapshot().HasToken {
		return errNotLoggedIn
	}

	if err := c.session.DisconnectAccount(ctx, provider); err != nil {
		return c.explain(err)
	}
	c.success("Disconnected %s", provider)
	return nil
}
