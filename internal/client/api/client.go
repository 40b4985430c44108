package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/iudanet/modify/internal/models"
	"github.com/iudanet/modify/pkg/api"
)

// Имена операций, попадают в Error.Op
const (
	opRegister              = "register"
	opLogin                 = "login"
	opRefresh               = "refresh"
	opLogout                = "logout"
	opFetchProfile          = "fetch profile"
	opUpdateProfile         = "update profile"
	opFetchHardware         = "fetch hardware"
	opSaveHardware          = "save hardware"
	opOAuthProviders        = "list oauth providers"
	opOAuthAuthorizationURL = "get oauth authorization url"
	opConnectedAccounts     = "list connected accounts"
	opDisconnectAccount     = "disconnect account"
	opVerifyEmail           = "verify email"
	opResendVerification    = "resend verification"
	opForgotPassword        = "forgot password"
	opResetPassword         = "reset password"
	opChangePassword        = "change password"
)

// DefaultTimeout таймаут одного HTTP запроса по умолчанию
const DefaultTimeout = 30 * time.Second

// RequestIDHeader заголовок корреляции запроса
const RequestIDHeader = "X-Request-ID"

// Client представляет HTTP клиент для взаимодействия с Modify API.
// Клиент не хранит состояние сессии: access token передается в каждый
// аутентифицированный вызов, refresh token живет в cookie jar.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// Option настраивает Client
type Option func(*Client)

// WithHTTPClient заменяет HTTP клиент целиком (jar и timeout берутся из него)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithCookieJar устанавливает jar для refresh cookie
func WithCookieJar(jar http.CookieJar) Option {
	return func(c *Client) {
		c.httpClient.Jar = jar
	}
}

// WithTimeout задает таймаут запроса
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRateLimit ограничивает частоту запросов. rps <= 0 отключает ограничение.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient создает новый API клиент.
// baseURL включает префикс API, например http://localhost:8000/api
func NewClient(baseURL string, opts ...Option) *Client {
	// cookiejar.New с nil опциями не возвращает ошибку
	jar, _ := cookiejar.New(nil)

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Jar:     jar,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL возвращает базовый адрес API
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, opRegister, http.MethodPost, "/auth/register", "", req, required{&resp}); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, malformed(opRegister, "access_token is missing")
	}
	return &resp, nil
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, opLogin, http.MethodPost, "/auth/login", "", req, required{&resp}); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, malformed(opLogin, "access_token is missing")
	}
	return &resp, nil
}

// Refresh выпускает новый access token по refresh cookie
func (c *Client) Refresh(ctx context.Context) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, opRefresh, http.MethodPost, "/auth/refresh", "", struct{}{}, required{&resp}); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, malformed(opRefresh, "access_token is missing")
	}
	return &resp, nil
}

// Logout инвалидирует сессию на сервере
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.doRequest(ctx, opLogout, http.MethodPost, "/auth/logout", token, struct{}{}, nil)
}

// FetchProfile возвращает профиль текущего пользователя
func (c *Client) FetchProfile(ctx context.Context, token string) (*models.UserProfile, error) {
	var user models.UserProfile
	if err := c.doRequest(ctx, opFetchProfile, http.MethodGet, "/auth/me", token, nil, required{&user}); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, malformed(opFetchProfile, "user profile without id")
	}
	return &user, nil
}

// UpdateProfile частично обновляет профиль и возвращает его полную версию
func (c *Client) UpdateProfile(ctx context.Context, token string, req api.UpdateProfileRequest) (*models.UserProfile, error) {
	var user models.UserProfile
	if err := c.doRequest(ctx, opUpdateProfile, http.MethodPut, "/auth/me", token, req, required{&user}); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, malformed(opUpdateProfile, "user profile without id")
	}
	return &user, nil
}

// FetchHardware возвращает сохраненное железо или nil, если профиль еще не заполнен
func (c *Client) FetchHardware(ctx context.Context, token string) (*models.HardwareProfile, error) {
	var hw *models.HardwareProfile
	if err := c.doRequest(ctx, opFetchHardware, http.MethodGet, "/auth/me/hardware", token, nil, &hw); err != nil {
		return nil, err
	}
	return hw, nil
}

// SaveHardware сохраняет железо пользователя
func (c *Client) SaveHardware(ctx context.Context, token string, req api.HardwareUpdateRequest) (*models.HardwareProfile, error) {
	var hw models.HardwareProfile
	if err := c.doRequest(ctx, opSaveHardware, http.MethodPut, "/auth/me/hardware", token, req, required{&hw}); err != nil {
		return nil, err
	}
	return &hw, nil
}

// ListOAuthProviders возвращает настроенные на сервере OAuth провайдеры
func (c *Client) ListOAuthProviders(ctx context.Context) ([]string, error) {
	var resp api.OAuthProvidersResponse
	if err := c.doRequest(ctx, opOAuthProviders, http.MethodGet, "/auth/oauth/providers", "", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Providers == nil {
		return []string{}, nil
	}
	return resp.Providers, nil
}

// OAuthAuthorizationURL возвращает адрес страницы авторизации провайдера
func (c *Client) OAuthAuthorizationURL(ctx context.Context, provider string) (*api.AuthorizationURLResponse, error) {
	var resp api.AuthorizationURLResponse
	path := "/auth/oauth/" + url.PathEscape(provider)
	if err := c.doRequest(ctx, opOAuthAuthorizationURL, http.MethodGet, path, "", nil, &resp); err != nil {
		return nil, err
	}
	if resp.AuthorizationURL == "" {
		return nil, &Error{Op: opOAuthAuthorizationURL, StatusCode: http.StatusOK, Kind: ErrProvider, Message: "empty authorization_url"}
	}
	return &resp, nil
}

// ListConnectedAccounts возвращает привязанные сторонние аккаунты
func (c *Client) ListConnectedAccounts(ctx context.Context, token string) ([]models.ConnectedAccount, error) {
	var accounts []models.ConnectedAccount
	if err := c.doRequest(ctx, opConnectedAccounts, http.MethodGet, "/auth/me/connected-accounts", token, nil, &accounts); err != nil {
		return nil, err
	}
	if accounts == nil {
		return []models.ConnectedAccount{}, nil
	}
	return accounts, nil
}

// DisconnectAccount отвязывает сторонний аккаунт
func (c *Client) DisconnectAccount(ctx context.Context, token, provider string) error {
	path := "/auth/me/connected-accounts/" + url.PathEscape(provider)
	return c.doRequest(ctx, opDisconnectAccount, http.MethodDelete, path, token, nil, nil)
}

// VerifyEmail подтверждает email по токену из письма
func (c *Client) VerifyEmail(ctx context.Context, verificationToken string) error {
	req := api.VerifyEmailRequest{Token: verificationToken}
	return c.doRequest(ctx, opVerifyEmail, http.MethodPost, "/auth/verify-email", "", req, nil)
}

// ResendVerification повторно отправляет письмо подтверждения
func (c *Client) ResendVerification(ctx context.Context, token string) error {
	return c.doRequest(ctx, opResendVerification, http.MethodPost, "/auth/resend-verification", token, struct{}{}, nil)
}

// ForgotPassword запрашивает письмо для сброса пароля
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	req := api.ForgotPasswordRequest{Email: email}
	return c.doRequest(ctx, opForgotPassword, http.MethodPost, "/auth/forgot-password", "", req, nil)
}

// ResetPassword устанавливает новый пароль по токену сброса
func (c *Client) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	req := api.ResetPasswordRequest{Token: resetToken, NewPassword: newPassword}
	return c.doRequest(ctx, opResetPassword, http.MethodPost, "/auth/reset-password", "", req, nil)
}

// ChangePassword меняет пароль аутентифицированного пользователя
func (c *Client) ChangePassword(ctx context.Context, token string, req api.ChangePasswordRequest) error {
	return c.doRequest(ctx, opChangePassword, http.MethodPost, "/auth/change-password", token, req, nil)
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, op, method, path, token string, body, result any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: rate limiter: %w", op, err)
		}
	}

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal request body: %w", op, err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", op, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Отмена вызывающим не является сетевой ошибкой
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", op, ctxErr)
		}
		return fmt.Errorf("%s: %w: %w", op, ErrNetworkUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: %w: failed to read response body: %w", op, ErrNetworkUnavailable, err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{
			Op:         op,
			StatusCode: resp.StatusCode,
			Kind:       classifyStatus(op, resp.StatusCode),
		}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			apiErr.Message = errResp.Message()
		} else if len(respBody) > 0 {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	// Декодируем успешный ответ
	target, mustDecode := result, false
	if r, ok := result.(required); ok {
		target, mustDecode = r.v, true
	}
	payload := bytes.TrimSpace(respBody)
	if mustDecode && (len(payload) == 0 || bytes.Equal(payload, []byte("null"))) {
		return &Error{Op: op, StatusCode: resp.StatusCode, Kind: ErrUnexpectedStatus, Message: "empty response body"}
	}
	if target != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, target); err != nil {
			return fmt.Errorf("%s: %w: failed to decode response: %w", op, ErrUnexpectedStatus, err)
		}
	}

	return nil
}

// required помечает результат, для которого пустой ответ недопустим
type required struct {
	v any
}

// malformed ошибка для успешного ответа с неполными данными
func malformed(op, msg string) *Error {
	return &Error{Op: op, StatusCode: http.StatusOK, Kind: ErrUnexpectedStatus, Message: msg}
}
