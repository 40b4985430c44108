package crypto

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// Параметры Argon2id для ключа хранилища токена.
// Ключ выводится один раз при запуске клиента, поэтому параметры умеренные.
const (
	// Argon2Time - количество итераций (time cost)
	Argon2Time = 2
	// Argon2Memory - объем памяти в KB (32MB)
	Argon2Memory = 32 * 1024
	// Argon2Threads - количество параллельных потоков
	Argon2Threads = 2
	// KeySize - длина ключа XChaCha20-Poly1305
	KeySize = chacha20poly1305.KeySize
	// SaltSize - размер соли в байтах
	SaltSize = 16
)

// GenerateSalt генерирует криптографически случайную соль
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// DeriveStorageKey выводит ключ шифрования локального хранилища из passphrase.
// Соль хранится рядом с базой и уникальна для каждой установки клиента.
func DeriveStorageKey(passphrase string, salt []byte) ([]byte, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("passphrase cannot be empty")
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("salt must be %d bytes, got %d", SaltSize, len(salt))
	}

	return argon2.IDKey([]byte(passphrase), salt, Argon2Time, Argon2Memory, Argon2Threads, KeySize), nil
}
