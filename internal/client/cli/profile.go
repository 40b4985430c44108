package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/iudanet/modify/internal/validation"
	pkgapi "github.com/iudanet/modify/pkg/api"
)

var errNotLoggedIn = errors.New("not logged in, run 'modify login' first")

func (c *Cli) runProfileShow(ctx context.Context) error {
	c.header("Profile")

	if !c.session.Snapshot().HasToken {
		return errNotLoggedIn
	}
	if err := c.session.LoadProfile(ctx); err != nil {
		return c.explain(err)
	}

	c.printProfile(c.session.User())
	return nil
}

// runProfileUpdate меняет только переданные поля; без полей спрашивает интерактивно
func (c *Cli) runProfileUpdate(ctx context.Context, req pkgapi.UpdateProfileRequest) error {
	c.header("Update Profile")

	if !c.session.Snapshot().HasToken {
		return errNotLoggedIn
	}

	if req.IsEmpty() {
		var err error
		if req.DisplayName, err = c.readOptional("Display name (empty to keep): "); err != nil {
			return fmt.Errorf("failed to read display name: %w", err)
		}
		if req.AvatarURL, err = c.readOptional("Avatar URL (empty to keep): "); err != nil {
			return fmt.Errorf("failed to read avatar url: %w", err)
		}
		if req.IsEmpty() {
			c.io.Println("Nothing to update.")
			return nil
		}
	}

	if req.DisplayName != nil {
		if err := validation.ValidateDisplayName(*req.DisplayName); err != nil {
			return err
		}
	}
	if req.AvatarURL != nil && *req.AvatarURL != "" {
		if u, err := url.Parse(*req.AvatarURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("invalid avatar url: %q", *req.AvatarURL)
		}
	}

	if err := c.session.UpdateProfile(ctx, req); err != nil {
		return c.explain(err)
	}

	c.success("Profile updated")
	c.printProfile(c.session.User())
	return nil
}
