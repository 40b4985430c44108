package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/modify/internal/client/storage"
	"github.com/iudanet/modify/internal/crypto"
)

var (
	// ErrTokenSealed сохраненный токен зашифрован, а ключ не задан
	ErrTokenSealed = errors.New("stored token is sealed: passphrase required")
	// ErrTokenUnreadable сохраненный токен не расшифровывается заданным ключом
	ErrTokenUnreadable = errors.New("stored token cannot be decrypted")
)

// Token access token текущей сессии
type Token struct {
	ExpiresAt time.Time // нулевое значение: срок неизвестен
	Value     string
	Type      string
}

// TokenStore хранит единственный access token между запусками клиента.
// Если задан sealer, токен шифруется перед записью в storage.
type TokenStore struct {
	storage storage.AuthStorage
	sealer  *crypto.Sealer
	now     func() time.Time
}

// NewTokenStore создает TokenStore. sealer может быть nil (хранение без шифрования).
func NewTokenStore(st storage.AuthStorage, sealer *crypto.Sealer) *TokenStore {
	return &TokenStore{
		storage: st,
		sealer:  sealer,
		now:     time.Now,
	}
}

// Save сохраняет токен, заменяя предыдущий
func (s *TokenStore) Save(ctx context.Context, tok Token) error {
	if tok.Value == "" {
		return fmt.Errorf("token is empty")
	}

	data := &storage.AuthData{
		AccessToken: tok.Value,
		TokenType:   tok.Type,
		SavedAt:     s.now().UTC(),
	}
	if !tok.ExpiresAt.IsZero() {
		data.ExpiresAt = tok.ExpiresAt.Unix()
	}

	if s.sealer != nil {
		sealed, err := s.sealer.SealString(tok.Value)
		if err != nil {
			return fmt.Errorf("failed to seal access token: %w", err)
		}
		data.AccessToken = sealed
		data.Sealed = true
	}

	if err := s.storage.SaveAuth(ctx, data); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Load возвращает сохраненный токен или storage.ErrAuthNotFound
func (s *TokenStore) Load(ctx context.Context) (*Token, error) {
	data, err := s.storage.GetAuth(ctx)
	if err != nil {
		return nil, err
	}

	tok := &Token{
		Value:     data.AccessToken,
		Type:      data.TokenType,
		ExpiresAt: data.Expiry(),
	}

	if data.Sealed {
		if s.sealer == nil {
			return nil, ErrTokenSealed
		}
		value, err := s.sealer.OpenString(data.AccessToken)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to open access token: %w", ErrTokenUnreadable, err)
		}
		tok.Value = value
	}

	if tok.Value == "" {
		return nil, storage.ErrAuthNotFound
	}

	return tok, nil
}

// Clear удаляет сохраненный токен. Отсутствие токена не является ошибкой.
func (s *TokenStore) Clear(ctx context.Context) error {
	if err := s.storage.DeleteAuth(ctx); err != nil && !errors.Is(err, storage.ErrAuthNotFound) {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

// NewSealerFromPassphrase выводит ключ шифрования токена из passphrase.
// Соль создается при первом вызове и хранится в metadata.
func NewSealerFromPassphrase(ctx context.Context, meta storage.MetadataStorage, passphrase string) (*crypto.Sealer, error) {
	salt, err := meta.GetMetadata(ctx, storage.MetaTokenSalt)
	switch {
	case errors.Is(err, storage.ErrMetadataNotFound):
		salt, err = crypto.GenerateSalt()
		if err != nil {
			return nil, err
		}
		if err := meta.SetMetadata(ctx, storage.MetaTokenSalt, salt); err != nil {
			return nil, fmt.Errorf("failed to save token salt: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read token salt: %w", err)
	}

	key, err := crypto.DeriveStorageKey(passphrase, salt)
	if err != nil {
		return nil, fmt.Errorf("failed to derive token key: %w", err)
	}

	return crypto.NewSealer(key)
}
