package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/iudanet/modify/internal/client/storage"
)

// SaveCookies replaces cookies stored for host
func (s *Storage) SaveCookies(ctx context.Context, host string, cookies []*http.Cookie) error {
	if len(cookies) == 0 {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM cookies WHERE host = ?`, host); err != nil {
			return fmt.Errorf("failed to delete cookies: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(storage.FromHTTPCookies(cookies))
	if err != nil {
		return fmt.Errorf("failed to marshal cookies: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cookies (host, data) VALUES (?, ?)
		ON CONFLICT(host) DO UPDATE SET data = excluded.data
	`, host, string(data))
	if err != nil {
		return fmt.Errorf("failed to save cookies: %w", err)
	}
	return nil
}

// LoadCookies returns cookies stored for host
func (s *Storage) LoadCookies(ctx context.Context, host string) ([]*http.Cookie, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM cookies WHERE host = ?`, host).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return []*http.Cookie{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cookies: %w", err)
	}

	var stored []storage.StoredCookie
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cookies: %w", err)
	}

	return storage.ToHTTPCookies(stored), nil
}
