package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/modify/internal/client/auth"
	"github.com/iudanet/modify/internal/validation"
)

func (c *Cli) runRegister(ctx context.Context, email string) error {
	c.header("Registration")

	var err error
	if email == "" {
		email, err = c.io.ReadInput("Email: ")
		if err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
	}
	email = strings.TrimSpace(email)
	if err := validation.ValidateEmail(email); err != nil {
		return err
	}

	displayName, err := c.readOptional("Display name (optional): ")
	if err != nil {
		return fmt.Errorf("failed to read display name: %w", err)
	}
	if displayName != nil {
		if err := validation.ValidateDisplayName(*displayName); err != nil {
			return err
		}
	}

	password, err := c.readNewPassword(fmt.Sprintf("Password (min %d chars): ", validation.MinPasswordLen))
	if err != nil {
		return err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Registering...")

	if err := c.session.Register(ctx, email, password, displayName); err != nil {
		return c.explain(err)
	}
	c.rememberEmail(ctx, email)

	user := c.session.User()
	c.io.Println()
	c.success("Registration successful!")
	if user != nil {
		c.io.Printf("Signed in as: %s\n", user.Name())
		if !user.EmailVerified {
			c.warning("Check %s for a verification link, then run 'modify verify-email <token>'.", user.Email)
		}
	}
	return nil
}

func (c *Cli) runLogin(ctx context.Context, email string) error {
	c.header("Login")

	var err error
	if email == "" {
		if email, err = c.readEmail(ctx); err != nil {
			return err
		}
	}
	email = strings.TrimSpace(email)
	if err := validation.ValidateEmail(email); err != nil {
		return err
	}

	password, err := c.readSecret(PasswordEnv, "Password: ")
	if err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	if err := c.session.Login(ctx, email, password); err != nil {
		return c.explain(err)
	}
	c.rememberEmail(ctx, email)

	c.io.Println()
	if user := c.session.User(); user != nil {
		c.success("Logged in as %s", user.Name())
	} else {
		c.success("Login successful!")
	}
	return nil
}

func (c *Cli) runLogout(ctx context.Context) error {
	c.header("Logout")

	// ошибки сервера только логируются, локальная сессия удаляется всегда
	c.session.Logout(ctx)

	c.success("Logout successful!")
	c.io.Println("Your local session has been deleted.")
	return nil
}

func (c *Cli) runStatus(_ context.Context) error {
	c.header("Session Status")

	snap := c.session.Snapshot()
	c.io.Printf("Status: %s\n", snap.State)

	switch snap.State {
	case auth.StateLoggedOut:
		c.io.Println()
		c.io.Println("Run 'modify login' to authenticate.")
		return nil
	case auth.StateHydrating:
		c.io.Println()
		c.warning("Token stored but profile could not be loaded. Run 'modify refresh' or log in again.")
	}

	if snap.User != nil {
		c.io.Println()
		c.printProfile(snap.User)
		if snap.User.Hardware.IsEmpty() {
			c.io.Println("Hardware: not profiled")
		} else {
			c.io.Printf("Hardware tier: %s\n", str(snap.User.Hardware.HardwareTier))
		}
	}

	c.io.Println()
	c.io.Printf("Token expires: %s\n", formatExpiry(c.session.TokenExpiry(), time.Now()))
	return nil
}

func (c *Cli) runRefresh(ctx context.Context) error {
	c.header("Refresh Session")

	if err := c.session.RefreshToken(ctx); err != nil {
		return c.explain(err)
	}

	// после восстановления по cookie профиля еще нет
	if !c.session.IsLoggedIn() {
		if err := c.session.LoadProfile(ctx); err != nil {
			return c.explain(err)
		}
	}

	c.success("Access token refreshed")
	c.io.Printf("Token expires: %s\n", formatExpiry(c.session.TokenExpiry(), time.Now()))
	return nil
}
