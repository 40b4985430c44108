package models

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// AuthProvider способ, которым был создан аккаунт
type AuthProvider string

const (
	AuthProviderLocal   AuthProvider = "local"
	AuthProviderGoogle  AuthProvider = "google"
	AuthProviderDiscord AuthProvider = "discord"
)

// Valid reports whether p is one of the known providers.
func (p AuthProvider) Valid() bool {
	switch p {
	case AuthProviderLocal, AuthProviderGoogle, AuthProviderDiscord:
		return true
	}
	return false
}

// IsOAuth reports whether p is a third-party provider.
func (p AuthProvider) IsOAuth() bool {
	return p == AuthProviderGoogle || p == AuthProviderDiscord
}

// UserProfile представляет аутентифицированного пользователя (GET /auth/me)
type UserProfile struct {
	DisplayName   *string          `json:"display_name,omitempty"` // отображаемое имя
	AvatarURL     *string          `json:"avatar_url,omitempty"`   // URL аватара
	Hardware      *HardwareProfile `json:"hardware,omitempty"`     // сохраненное железо пользователя
	ID            string           `json:"id"`                     // непрозрачный ID
	Email         string           `json:"email"`
	AuthProvider  AuthProvider     `json:"auth_provider"` // задается при создании аккаунта
	EmailVerified bool             `json:"email_verified"`
}

// Clone возвращает глубокую копию профиля
func (u *UserProfile) Clone() *UserProfile {
	if u == nil {
		return nil
	}
	c := *u
	c.DisplayName = clonePtr(u.DisplayName)
	c.AvatarURL = clonePtr(u.AvatarURL)
	c.Hardware = u.Hardware.Clone()
	return &c
}

// Name returns the display name, falling back to the email.
func (u *UserProfile) Name() string {
	if u.DisplayName != nil && strings.TrimSpace(*u.DisplayName) != "" {
		return *u.DisplayName
	}
	return u.Email
}

// Initials возвращает до двух заглавных инициалов для аватара-заглушки.
// Берутся из display name, а если его нет - из email.
func (u *UserProfile) Initials() string {
	if u == nil {
		return ""
	}
	name := u.Name()
	if name == u.Email {
		// для email используем только локальную часть
		if at := strings.IndexByte(name, '@'); at > 0 {
			name = name[:at]
		}
		r, _ := utf8.DecodeRuneInString(name)
		if r == utf8.RuneError {
			return ""
		}
		return string(unicode.ToUpper(r))
	}

	var b strings.Builder
	for _, part := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
		if utf8.RuneCountInString(b.String()) == 2 {
			break
		}
	}
	return b.String()
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
