package boltdb

import (
	"bytes"
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/modify/internal/client/storage"
)

// SetMetadata stores value for key
func (s *Storage) SetMetadata(ctx context.Context, key string, value []byte) error {
	return s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		if err := bucket.Put([]byte(key), value); err != nil {
			return fmt.Errorf("failed to save metadata[%s]: %w", key, err)
		}
		return nil
	})
}

// GetMetadata returns a copy of the value stored for key
func (s *Storage) GetMetadata(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		data := bucket.Get([]byte(key))
		if data == nil {
			return storage.ErrMetadataNotFound
		}

		// bbolt отдает срез, валидный только внутри транзакции
		value = bytes.Clone(data)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}
