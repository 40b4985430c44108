package api

import (
	"encoding/json"
	"strings"
)

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	DisplayName *string `json:"display_name,omitempty"` // опциональное отображаемое имя
	Email       string  `json:"email"`
	Password    string  `json:"password"`
}

// LoginRequest представляет запрос на аутентификацию по email/паролю
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse представляет ответ с access token.
// Refresh token сервер выставляет отдельно, в httpOnly cookie.
type TokenResponse struct {
	AccessToken string `json:"access_token"` // bearer token (непрозрачный для клиента)
	TokenType   string `json:"token_type"`   // обычно "bearer"
	ExpiresIn   int64  `json:"expires_in"`   // время жизни access token в секундах
}

// UpdateProfileRequest частичное обновление профиля (PUT /auth/me)
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

// IsEmpty reports whether the request would change nothing.
func (r UpdateProfileRequest) IsEmpty() bool {
	return r.DisplayName == nil && r.AvatarURL == nil
}

// HardwareUpdateRequest тело PUT /auth/me/hardware.
// Передаются только заданные поля, сервер сам пересчитывает hardware_tier.
type HardwareUpdateRequest struct {
	GPUModel        *string  `json:"gpu_model,omitempty"`
	CPUModel        *string  `json:"cpu_model,omitempty"`
	RAMGB           *int     `json:"ram_gb,omitempty"`
	VRAMMB          *int     `json:"vram_mb,omitempty"`
	CPUCores        *int     `json:"cpu_cores,omitempty"`
	CPUSpeedGHz     *float64 `json:"cpu_speed_ghz,omitempty"`
	HardwareRawText *string  `json:"hardware_raw_text,omitempty"`
}

// OAuthProvidersResponse список настроенных OAuth провайдеров
type OAuthProvidersResponse struct {
	Providers []string `json:"providers"`
}

// AuthorizationURLResponse ответ GET /auth/oauth/{provider}
type AuthorizationURLResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	State            string `json:"state,omitempty"` // CSRF state, проверяется сервером на callback
}

// VerifyEmailRequest тело POST /auth/verify-email
type VerifyEmailRequest struct {
	Token string `json:"token"`
}

// ForgotPasswordRequest тело POST /auth/forgot-password
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest тело POST /auth/reset-password
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ChangePasswordRequest тело POST /auth/change-password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// StatusResponse типичный ответ 2xx без полезной нагрузки
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse представляет ответ с ошибкой.
// detail бывает строкой или, для ошибок валидации (422), списком объектов с полем msg.
type ErrorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

type validationIssue struct {
	Msg string `json:"msg"`
}

// Message flattens detail into a human readable string.
func (e ErrorResponse) Message() string {
	if len(e.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(e.Detail, &s); err == nil {
		return s
	}

	var issues []validationIssue
	if err := json.Unmarshal(e.Detail, &issues); err == nil {
		msgs := make([]string, 0, len(issues))
		for _, issue := range issues {
			if issue.Msg != "" {
				msgs = append(msgs, issue.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return string(e.Detail)
}
