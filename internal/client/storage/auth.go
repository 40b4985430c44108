package storage

import (
	"context"
	"time"
)

// AuthStorage defines interface for storing the session token on client.
// This is the lowest storage layer - it works with raw data (token may already be sealed)
// and doesn't perform any encryption/decryption itself.
// Every call must be atomic: readers never observe a partially written token.
type AuthStorage interface {
	// SaveAuth replaces stored authentication data as-is
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth retrieves stored authentication data as-is
	// Returns ErrAuthNotFound if no auth data exists
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes stored authentication data (logout)
	// Returns ErrAuthNotFound if there was nothing to delete
	DeleteAuth(ctx context.Context) error
}

// AuthData represents the persisted session token.
// IMPORTANT: AccessToken is plaintext in memory and may be sealed in storage
// (Sealed=true, base64 ciphertext). Sealing happens in auth.TokenStore.
type AuthData struct {
	SavedAt     time.Time `json:"saved_at"`
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   int64     `json:"expires_at"` // unix seconds, 0 = неизвестно
	Sealed      bool      `json:"sealed"`
}

// Expiry returns ExpiresAt as time, zero when unknown.
func (a *AuthData) Expiry() time.Time {
	if a == nil || a.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(a.ExpiresAt, 0)
}
