package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/modify/internal/client/storage"
)

// SaveAuth stores authentication data (single row, upsert)
func (s *Storage) SaveAuth(ctx context.Context, auth *storage.AuthData) error {
	if auth == nil {
		return fmt.Errorf("auth data is nil")
	}

	var savedAt int64
	if !auth.SavedAt.IsZero() {
		savedAt = auth.SavedAt.Unix()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO auth (id, access_token, token_type, expires_at, sealed, saved_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			token_type   = excluded.token_type,
			expires_at   = excluded.expires_at,
			sealed       = excluded.sealed,
			saved_at     = excluded.saved_at
	`, auth.AccessToken, auth.TokenType, auth.ExpiresAt, auth.Sealed, savedAt)
	if err != nil {
		return fmt.Errorf("failed to save auth data: %w", err)
	}

	return nil
}

// GetAuth retrieves stored authentication data
func (s *Storage) GetAuth(ctx context.Context) (*storage.AuthData, error) {
	var (
		auth    storage.AuthData
		savedAt int64
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT access_token, token_type, expires_at, sealed, saved_at
		FROM auth WHERE id = 1
	`).Scan(&auth.AccessToken, &auth.TokenType, &auth.ExpiresAt, &auth.Sealed, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrAuthNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get auth data: %w", err)
	}

	if savedAt != 0 {
		auth.SavedAt = time.Unix(savedAt, 0).UTC()
	}

	return &auth, nil
}

// DeleteAuth removes stored authentication data (logout)
func (s *Storage) DeleteAuth(ctx context.Context) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM auth WHERE id = 1`)
	if err != nil {
		return fmt.Errorf("failed to delete auth data: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrAuthNotFound
	}

	return nil
}
