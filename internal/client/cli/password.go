package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/iudanet/modify/internal/validation"
)

func (c *Cli) runVerifyEmail(ctx context.Context, token string) error {
	c.header("Verify Email")

	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("verification token cannot be empty")
	}
	if err := c.session.VerifyEmail(ctx, token); err != nil {
		return c.explain(err)
	}

	// обновляем флаг email_verified в локальном профиле
	if c.session.Snapshot().HasToken {
		if err := c.session.LoadProfile(ctx); err != nil {
			c.warning("Email verified, but the profile could not be reloaded: %v", err)
			return nil
		}
	}
	c.success("Email verified")
	return nil
}

func (c *Cli) runResendVerification(ctx context.Context) error {
	c.header("Resend Verification")

	if !c.session.Snapshot().HasToken {
		return errNotLoggedIn
	}
	if c.session.IsEmailVerified() {
		c.io.Println("Your email is already verified.")
		return nil
	}

	if err := c.session.ResendVerification(ctx); err != nil {
		return c.explain(err)
	}
	c.success("Verification email sent")
	return nil
}

func (c *Cli) runForgotPassword(ctx context.Context, email string) error {
	c.header("Forgot Password")

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

	if err := c.session.ForgotPassword(ctx, email); err != nil {
		return c.explain(err)
	}
	// сервер не сообщает, существует ли аккаунт
	c.success("If an account exists for %s, a reset link has been sent.", email)
	return nil
}

func (c *Cli) runResetPassword(ctx context.Context, token string) error {
	c.header("Reset Password")

	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("reset token cannot be empty")
	}

	password, err := c.readNewPassword("New password: ")
	if err != nil {
		return err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return err
	}

	if err := c.session.ResetPassword(ctx, token, password); err != nil {
		return c.explain(err)
	}
	c.success("Password reset. Run 'modify login' with the new password.")
	return nil
}

func (c *Cli) runChangePassword(ctx context.Context) error {
	c.header("Change Password")

	if !c.session.Snapshot().HasToken {
		return errNotLoggedIn
	}

	current, err := c.readSecret("", "Current password: ")
	if err != nil {
		return err
	}
	if current == "" {
		return fmt.Errorf("current password cannot be empty")
	}

	password, err := c.readNewPassword("New password: ")
	if err != nil {
		return err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return err
	}
	if password == current {
		return fmt.Errorf("new password must differ from the current one")
	}

	if err := c.session.ChangePassword(ctx, current, password); err != nil {
		return c.explain(err)
	}
	c.success("Password changed")
	return nil
}
