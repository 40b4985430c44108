package boltdb

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/modify/internal/client/storage"
)

var (
	// BoltDB bucket names
	bucketAuth     = []byte("auth")
	bucketMetadata = []byte("metadata")
	bucketCookies  = []byte("cookies")
)

// Compile-time checks
var (
	_ storage.AuthStorage     = (*Storage)(nil)
	_ storage.MetadataStorage = (*Storage)(nil)
	_ storage.CookieStorage   = (*Storage)(nil)
)

// Storage represents BoltDB storage implementation for client
type Storage struct {
	db *bbolt.DB
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем BoltDB. Timeout защищает от зависания, если файл занят другим процессом клиента
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db}

	// Инициализируем buckets
	if err := s.initBuckets(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketAuth, bucketMetadata, bucketCookies} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// update/view проверяют, что хранилище не закрыто
func (s *Storage) update(fn func(tx *bbolt.Tx) error) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return s.db.Update(fn)
}

func (s *Storage) view(fn func(tx *bbolt.Tx) error) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return s.db.View(fn)
}
