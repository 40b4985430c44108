package auth

import (
	"context"

	"github.com/iudanet/modify/internal/models"
	pkgapi "github.com/iudanet/modify/pkg/api"
)

//go:generate moq -out gateway_mock.go . Gateway

// Gateway remote auth API as seen by the session.
// Authenticated methods take the bearer token explicitly: the gateway
// keeps no session state of its own (the refresh cookie lives in its jar).
type Gateway interface {
	Register(ctx context.Context, req pkgapi.RegisterRequest) (*pkgapi.TokenResponse, error)
	Login(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.TokenResponse, error)
	// Refresh issues a new access token from the refresh cookie
	Refresh(ctx context.Context) (*pkgapi.TokenResponse, error)
	Logout(ctx context.Context, token string) error

	FetchProfile(ctx context.Context, token string) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, token string, req pkgapi.UpdateProfileRequest) (*models.UserProfile, error)

	// FetchHardware returns nil when the user has no hardware saved
	FetchHardware(ctx context.Context, token string) (*models.HardwareProfile, error)
	SaveHardware(ctx context.Context, token string, req pkgapi.HardwareUpdateRequest) (*models.HardwareProfile, error)

	ListOAuthProviders(ctx context.Context) ([]string, error)
	OAuthAuthorizationURL(ctx context.Context, provider string) (*pkgapi.AuthorizationURLResponse, error)
	ListConnectedAccounts(ctx context.Context, token string) ([]models.ConnectedAccount, error)
	DisconnectAccount(ctx context.Context, token, provider string) error

	VerifyEmail(ctx context.Context, verificationToken string) error
	ResendVerification(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
	ChangePassword(ctx context.Context, token string, req pkgapi.ChangePasswordRequest) error
}
