package crypto

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// Sealer шифрует небольшие значения (токены) XChaCha20-Poly1305.
// Формат результата: nonce (24 bytes) + ciphertext + tag (16 bytes)
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer создает Sealer для 32-байтного ключа
func NewSealer(key []byte) (*Sealer, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", KeySize, len(key))
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	return &Sealer{aead: aead}, nil
}

// Seal шифрует plaintext со случайным nonce
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, fmt.Errorf("plaintext cannot be empty")
	}

	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// дописываем ciphertext сразу после nonce
	return s.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open расшифровывает данные, полученные из Seal
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < s.aead.NonceSize()+s.aead.Overhead() {
		return nil, fmt.Errorf("encrypted data too short")
	}

	nonce, ciphertext := sealed[:s.aead.NonceSize()], sealed[s.aead.NonceSize():]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: authentication failed or corrupted data: %w", err)
	}

	return plaintext, nil
}

// SealString шифрует строку и кодирует результат в base64 для хранения в JSON
func (s *Sealer) SealString(plaintext string) (string, error) {
	sealed, err := s.Seal([]byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// OpenString обратная операция к SealString
func (s *Sealer) OpenString(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64: %w", err)
	}

	plaintext, err := s.Open(sealed)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
