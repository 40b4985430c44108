package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/modify/internal/client/storage"
)

var authKey = []byte("current")

// SaveAuth stores authentication data in a single update transaction
func (s *Storage) SaveAuth(ctx context.Context, auth *storage.AuthData) error {
	if auth == nil {
		return fmt.Errorf("auth data is nil")
	}

	return s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAuth)
		if bucket == nil {
			return fmt.Errorf("auth bucket not found")
		}

		// Сериализуем данные в JSON
		data, err := json.Marshal(auth)
		if err != nil {
			return fmt.Errorf("failed to marshal auth data: %w", err)
		}

		if err := bucket.Put(authKey, data); err != nil {
			return fmt.Errorf("failed to save auth data: %w", err)
		}

		return nil
	})
}

// GetAuth retrieves stored authentication data
func (s *Storage) GetAuth(ctx context.Context) (*storage.AuthData, error) {
	var auth *storage.AuthData

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAuth)
		if bucket == nil {
			return fmt.Errorf("auth bucket not found")
		}

		data := bucket.Get(authKey)
		if data == nil {
			return storage.ErrAuthNotFound
		}

		// Десериализуем (данные валидны только внутри транзакции, Unmarshal их копирует)
		auth = &storage.AuthData{}
		if err := json.Unmarshal(data, auth); err != nil {
			return fmt.Errorf("failed to unmarshal auth data: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return auth, nil
}

// DeleteAuth removes stored authentication data (logout)
func (s *Storage) DeleteAuth(ctx context.Context) error {
	return s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAuth)
		if bucket == nil {
			return fmt.Errorf("auth bucket not found")
		}

		if bucket.Get(authKey) == nil {
			return storage.ErrAuthNotFound
		}

		if err := bucket.Delete(authKey); err != nil {
			return fmt.Errorf("failed to delete auth data: %w", err)
		}

		return nil
	})
}
