package validation

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/iudanet/modify/internal/models"
)

const (
	// MinPasswordLen минимальная длина пароля
	MinPasswordLen = 8
	// MaxPasswordLen максимальная длина пароля (ограничение bcrypt на сервере)
	MaxPasswordLen = 72
	// MaxDisplayNameLen максимальная длина отображаемого имени
	MaxDisplayNameLen = 64
)

// ValidateEmail проверяет, что строка является одиночным email адресом без имени
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" || addr.Address != email {
		return fmt.Errorf("invalid email address: %q", email)
	}

	if !strings.Contains(addr.Address[strings.LastIndexByte(addr.Address, '@')+1:], ".") {
		return fmt.Errorf("email domain must contain a dot: %q", email)
	}

	return nil
}

// ValidatePassword проверяет минимальные требования к паролю
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	if len(password) > MaxPasswordLen {
		return fmt.Errorf("password must not exceed %d bytes", MaxPasswordLen)
	}

	return nil
}

// ValidateDisplayName проверяет отображаемое имя (пустое допускается)
func ValidateDisplayName(name string) error {
	if len([]rune(name)) > MaxDisplayNameLen {
		return fmt.Errorf("display name must not exceed %d characters", MaxDisplayNameLen)
	}
	return nil
}

// ValidateProvider проверяет имя OAuth провайдера перед запросом authorization URL
func ValidateProvider(provider string) error {
	switch p := models.AuthProvider(provider); {
	case provider == "":
		return fmt.Errorf("provider cannot be empty")
	case p.Valid() && !p.IsOAuth():
		return fmt.Errorf("provider %q does not support OAuth login", provider)
	}

	for _, r := range provider {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' && r != '_' {
			return fmt.Errorf("provider name can only contain lowercase letters, digits, '-' and '_'")
		}
	}

	return nil
}
