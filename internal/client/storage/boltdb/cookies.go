package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.etcd.io/bbolt"

	"github.com/iudanet/modify/internal/client/storage"
)

// SaveCookies replaces cookies stored for host
func (s *Storage) SaveCookies(ctx context.Context, host string, cookies []*http.Cookie) error {
	return s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCookies)
		if bucket == nil {
			return fmt.Errorf("cookies bucket not found")
		}

		if len(cookies) == 0 {
			return bucket.Delete([]byte(host))
		}

		data, err := json.Marshal(storage.FromHTTPCookies(cookies))
		if err != nil {
			return fmt.Errorf("failed to marshal cookies: %w", err)
		}

		if err := bucket.Put([]byte(host), data); err != nil {
			return fmt.Errorf("failed to save cookies: %w", err)
		}
		return nil
	})
}

// LoadCookies returns cookies stored for host
func (s *Storage) LoadCookies(ctx context.Context, host string) ([]*http.Cookie, error) {
	var stored []storage.StoredCookie

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCookies)
		if bucket == nil {
			return fmt.Errorf("cookies bucket not found")
		}

		data := bucket.Get([]byte(host))
		if data == nil {
			return nil
		}

		if err := json.Unmarshal(data, &stored); err != nil {
			return fmt.Errorf("failed to unmarshal cookies: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return storage.ToHTTPCookies(stored), nil
}
