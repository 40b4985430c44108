package auth

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/iudanet/modify/internal/client/api"
)

// ParseCallbackToken извлекает access token из адреса, на который сервер
// перенаправляет после OAuth (…/auth/callback?token=…).
// Допускается и "голый" токен, скопированный пользователем.
func ParseCallbackToken(callback string) (string, error) {
	callback = strings.TrimSpace(callback)
	if callback == "" {
		return "", fmt.Errorf("%w: empty oauth callback", api.ErrValidation)
	}

	if !strings.Contains(callback, "://") && !strings.Contains(callback, "?") {
		return callback, nil
	}

	u, err := url.Parse(callback)
	if err != nil {
		return "", fmt.Errorf("%w: invalid oauth callback url: %w", api.ErrValidation, err)
	}

	q := u.Query()
	if msg := q.Get("error"); msg != "" {
		return "", fmt.Errorf("%w: %s", api.ErrProvider, msg)
	}

	token := q.Get("token")
	if token == "" {
		return "", fmt.Errorf("%w: oauth callback has no token parameter", api.ErrValidation)
	}

	return token, nil
}
