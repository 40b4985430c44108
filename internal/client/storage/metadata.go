package storage

import "context"

// Known metadata keys
const (
	// MetaTokenSalt соль для вывода ключа шифрования токена из passphrase
	MetaTokenSalt = "token_salt"
	// MetaLastEmail последний email, с которым выполнялся вход (подсказка в CLI)
	MetaLastEmail = "last_email"
)

// MetadataStorage defines interface for small key/value client metadata
type MetadataStorage interface {
	// GetMetadata returns value for key or ErrMetadataNotFound
	GetMetadata(ctx context.Context, key string) ([]byte, error)

	// SetMetadata stores value for key, replacing previous value
	SetMetadata(ctx context.Context, key string, value []byte) error
}
