package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/modify/internal/client/api"
	"github.com/iudanet/modify/internal/client/storage"
	"github.com/iudanet/modify/internal/models"
	"github.com/iudanet/modify/internal/validation"
	pkgapi "github.com/iudanet/modify/pkg/api"
)

const (
	// DefaultRefreshSkew за сколько до истечения токен обновляется заранее
	DefaultRefreshSkew = 60 * time.Second
	// DefaultLogoutTimeout ограничение на best-effort уведомление сервера о logout
	DefaultLogoutTimeout = 5 * time.Second
)

// ErrSessionChanged операция завершилась после смены сессии (logout, новый вход
// или сброс) и ее результат отброшен.
var ErrSessionChanged = errors.New("session changed during operation")

// State состояние сессии
type State int

const (
	// StateLoggedOut нет токена и пользователя
	StateLoggedOut State = iota
	// StateHydrating токен есть, профиль еще не загружен
	StateHydrating
	// StateLoggedIn токен и профиль есть
	StateLoggedIn
)

func (s State) String() string {
	switch s {
	case StateLoggedOut:
		return "logged_out"
	case StateHydrating:
		return "hydrating"
	case StateLoggedIn:
		return "logged_in"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Snapshot неизменяемый срез состояния сессии для подписчиков
type Snapshot struct {
	User     *models.UserProfile
	State    State
	HasToken bool
}

// IsLoggedIn reports whether the snapshot carries a user.
func (s Snapshot) IsLoggedIn() bool {
	return s.User != nil
}

// Option настраивает Session
type Option func(*Session)

// WithNavigator задает обработчик навигации (redirect, переход на логин)
func WithNavigator(n Navigator) Option {
	return func(s *Session) {
		if n != nil {
			s.navigator = n
		}
	}
}

// WithNotifier задает канал уведомлений пользователю
func WithNotifier(n Notifier) Option {
	return func(s *Session) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLogger задает логгер
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRefreshSkew задает окно упреждающего обновления токена. 0 отключает его.
func WithRefreshSkew(d time.Duration) Option {
	return func(s *Session) {
		s.refreshSkew = d
	}
}

// WithLogoutTimeout ограничивает ожидание ответа сервера при logout
func WithLogoutTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.logoutTimeout = d
		}
	}
}

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// Session единственный источник истины о текущей аутентификации.
//
// Состояние (токен и профиль) меняется только под mu, вместе с записью
// токена в хранилище. Сетевые вызовы выполняются без блокировки; результат
// применяется только если за это время не сменилась эпоха сессии.
type Session struct {
	gateway     Gateway
	navigator   Navigator
	notifier    Notifier
	tokens      *TokenStore
	logger      *slog.Logger
	now         func() time.Time
	token       *Token
	user        *models.UserProfile
	subscribers map[int]chan Snapshot

	refreshSkew   time.Duration
	logoutTimeout time.Duration
	epoch         uint64
	nextSubID     int
	mu            sync.Mutex
}

// NewSession создает сессию и загружает сохраненный токен.
// Если токен есть, сессия стартует в StateHydrating; профиль загружает Bootstrap.
// Токен, который нельзя расшифровать, удаляется: сессия стартует в StateLoggedOut.
func NewSession(ctx context.Context, gateway Gateway, tokens *TokenStore, opts ...Option) (*Session, error) {
	s := &Session{
		gateway:       gateway,
		tokens:        tokens,
		navigator:     nopNavigator{},
		notifier:      nopNotifier{},
		logger:        slog.Default(),
		now:           time.Now,
		subscribers:   make(map[int]chan Snapshot),
		refreshSkew:   DefaultRefreshSkew,
		logoutTimeout: DefaultLogoutTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	tok, err := tokens.Load(ctx)
	switch {
	case err == nil:
		s.token = tok
	case errors.Is(err, storage.ErrAuthNotFound):
	case errors.Is(err, ErrTokenSealed), errors.Is(err, ErrTokenUnreadable):
		s.logger.Warn("stored session token is unreadable, logged out", "error", err)
		if err := tokens.Clear(ctx); err != nil {
			s.logger.Warn("failed to clear unreadable token", "error", err)
		}
	default:
		return nil, fmt.Errorf("failed to load session token: %w", err)
	}

	return s, nil
}

// Bootstrap загружает профиль для сохраненного токена.
// Любая ошибка приводит к сбросу сессии; повторный вызов ничего не делает.
func (s *Session) Bootstrap(ctx context.Context) {
	s.mu.Lock()
	pending := s.token != nil && s.user == nil
	s.mu.Unlock()
	if !pending {
		return
	}

	if err := s.LoadProfile(ctx); err != nil && !errors.Is(err, ErrSessionChanged) {
		s.logger.Info("stored session rejected, logged out", "error", err)
	}
}

// Register создает аккаунт и входит в него.
// Возвращается после загрузки профиля.
func (s *Session) Register(ctx context.Context, email, password string, displayName *string) error {
	resp, err := s.gateway.Register(ctx, pkgapi.RegisterRequest{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	})
	if err != nil {
		return err
	}
	return s.establish(ctx, resp)
}

// Login входит по email и паролю.
// Возвращается после загрузки профиля.
func (s *Session) Login(ctx context.Context, email, password string) error {
	resp, err := s.gateway.Login(ctx, pkgapi.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}
	return s.establish(ctx, resp)
}

// CompleteOAuth принимает адрес возврата после OAuth (или сам токен)
// и входит так же, как Login.
func (s *Session) CompleteOAuth(ctx context.Context, callback string) error {
	token, err := ParseCallbackToken(callback)
	if err != nil {
		return err
	}
	return s.establish(ctx, &pkgapi.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// RefreshToken обновляет access token через refresh cookie.
// Заменяется только токен; профиль и состояние не меняются.
func (s *Session) RefreshToken(ctx context.Context) error {
	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	resp, err := s.gateway.Refresh(ctx)
	if err != nil {
		return err
	}
	tok := s.newToken(resp)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		return ErrSessionChanged
	}
	if err := s.tokens.Save(ctx, tok); err != nil {
		return fmt.Errorf("failed to persist refreshed token: %w", err)
	}
	s.token = &tok
	s.publishLocked()
	return nil
}

// Logout сбрасывает сессию локально, затем уведомляет сервер (ошибки
// только логируются) и переводит пользователя на страницу входа.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	var token string
	if s.token != nil {
		token = s.token.Value
	}
	s.resetLocked(ctx)
	s.mu.Unlock()

	lctx, cancel := context.WithTimeout(ctx, s.logoutTimeout)
	defer cancel()
	if err := s.gateway.Logout(lctx, token); err != nil {
		s.logger.Warn("failed to logout on server", "error", err)
	}

	s.navigator.NavigateToLogin()
}

// LoadProfile перечитывает профиль. При любой ошибке сессия сбрасывается.
func (s *Session) LoadProfile(ctx context.Context) error {
	token, epoch, err := s.credentials(ctx)
	if err != nil {
		return err
	}
	return s.hydrate(ctx, epoch, token)
}

// UpdateProfile изменяет display name и/или avatar и заменяет профиль ответом сервера
func (s *Session) UpdateProfile(ctx context.Context, req pkgapi.UpdateProfileRequest) error {
	token, epoch, err := s.credentials(ctx)
	if err != nil {
		return err
	}

	user, err := s.gateway.UpdateProfile(ctx, token, req)
	if err != nil {
		return s.failed(ctx, epoch, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return ErrSessionChanged
	}
	return s.commitUserLocked(user)
}

// SaveHardware сохраняет железо и подмешивает ответ в текущий профиль.
// Остальные поля профиля не меняются; без профиля слияние пропускается.
func (s *Session) SaveHardware(ctx context.Context, req pkgapi.HardwareUpdateRequest) (*models.HardwareProfile, error) {
	token, epoch, err := s.credentials(ctx)
	if err != nil {
		return nil, err
	}

	hw, err := s.gateway.SaveHardware(ctx, token, req)
	if err != nil {
		return nil, s.failed(ctx, epoch, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return nil, ErrSessionChanged
	}
	if s.user != nil {
		merged := s.user.Clone()
		merged.Hardware = hw.Clone()
		if err := s.commitUserLocked(merged); err != nil {
			return nil, err
		}
	}
	return hw.Clone(), nil
}

// FetchHardware читает сохраненное железо с сервера (nil, если его нет).
// Профиль в сессии не меняется.
func (s *Session) FetchHardware(ctx context.Context) (*models.HardwareProfile, error) {
	token, epoch, err := s.credentials(ctx)
	if err != nil {
		return nil, err
	}

	hw, err := s.gateway.FetchHardware(ctx, token)
	if err != nil {
		return nil, s.failed(ctx, epoch, err)
	}
	return hw, nil
}

// OAuthLogin запрашивает адрес авторизации провайдера и перенаправляет туда.
// Ошибки показываются через Notifier, состояние сессии не меняется.
func (s *Session) OAuthLogin(ctx context.Context, provider string) {
	if err := validation.ValidateProvider(provider); err != nil {
		s.notifyError(ctx, "OAuth login failed", fmt.Errorf("%w: %w", api.ErrProvider, err))
		return
	}

	resp, err := s.gateway.OAuthAuthorizationURL(ctx, provider)
	if err != nil {
		s.notifyError(ctx, "OAuth login failed", err)
		return
	}

	if err := s.navigator.Redirect(resp.AuthorizationURL); err != nil {
		s.notifyError(ctx, "Could not open authorization page", err)
	}
}

// OAuthProviders список провайдеров, настроенных на сервере
func (s *Session) OAuthProviders(ctx context.Context) ([]string, error) {
	return s.gateway.ListOAuthProviders(ctx)
}

// ConnectedAccounts привязанные сторонние аккаунты (не кэшируются)
func (s *Session) ConnectedAccounts(ctx context.Context) ([]models.ConnectedAccount, error) {
	token, epoch, err := s.credentials(ctx)
	if err != nil {
		return nil, err
	}

	accounts, err := s.gateway.ListConnectedAccounts(ctx, token)
	if err != nil {
		return nil, s.failed(ctx, epoch, err)
	}
	return accounts, nil
}

// DisconnectAccount отвязывает сторонний аккаунт
func (s *Session) DisconnectAccount(ctx context.Context, provider string) error {
	token, epoch, err := s.credentials(ctx)
	if err != nil {
		return err
	}

	if err := s.gateway.DisconnectAccount(ctx, token, provider); err != nil {
		return s.failed(ctx, epoch, err)
	}
	return nil
}

// VerifyEmail подтверждает email токеном из письма
func (s *Session) VerifyEmail(ctx context.Context, verificationToken string) error {
	return s.gateway.VerifyEmail(ctx, verificationToken)
}

// ResendVerification повторно отправляет письмо подтверждения
func (s *Session) ResendVerification(ctx context.Context) error {
	token, epoch, err := s.credentials(ctx)
	if err != nil {
		return err
	}

	if err := s.gateway.ResendVerification(ctx, token); err != nil {
		return s.failed(ctx, epoch, err)
	}
	return nil
}

// ForgotPassword запрашивает письмо для сброса пароля
func (s *Session) ForgotPassword(ctx context.Context, email string) error {
	return s.gateway.ForgotPassword(ctx, email)
}

// ResetPassword задает новый пароль по токену из письма
func (s *Session) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	return s.gateway.ResetPassword(ctx, resetToken, newPassword)
}

// ChangePassword меняет пароль текущего пользователя
func (s *Session) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	token, epoch, err := s.credentials(ctx)
	if err != nil {
		return err
	}

	req := pkgapi.ChangePasswordRequest{CurrentPassword: currentPassword, NewPassword: newPassword}
	if err := s.gateway.ChangePassword(ctx, token, req); err != nil {
		return s.failed(ctx, epoch, err)
	}
	return nil
}

// User возвращает копию текущего профиля или nil
func (s *Session) User() *models.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Clone()
}

// IsLoggedIn reports whether a user profile is present.
func (s *Session) IsLoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// IsEmailVerified false, если пользователя нет
func (s *Session) IsEmailVerified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.user.EmailVerified
}

// SavedHardware железо из текущего профиля или nil
func (s *Session) SavedHardware() *models.HardwareProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	return s.user.Hardware.Clone()
}

// State текущее состояние сессии
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Snapshot согласованный срез состояния
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// TokenExpiry срок действия текущего токена (нулевое время, если неизвестен или токена нет)
func (s *Session) TokenExpiry() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == nil {
		return time.Time{}
	}
	return s.token.ExpiresAt
}

// Subscribe возвращает канал изменений состояния и функцию отписки.
// В канал сразу кладется текущее состояние. Медленный подписчик получает
// только последний снимок.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	ch := make(chan Snapshot, 1)
	ch <- s.snapshotLocked()
	s.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subscribers, id)
			close(ch)
		})
	}
}

// establish сохраняет новый токен, начинает новую эпоху и загружает профиль
func (s *Session) establish(ctx context.Context, resp *pkgapi.TokenResponse) error {
	tok := s.newToken(resp)

	s.mu.Lock()
	if err := s.tokens.Save(ctx, tok); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to persist token: %w", err)
	}
	s.epoch++
	epoch := s.epoch
	s.token = &tok
	s.user = nil
	s.publishLocked()
	s.mu.Unlock()

	return s.hydrate(ctx, epoch, tok.Value)
}

// hydrate загружает профиль для токена эпохи epoch.
// Ошибка загрузки сбрасывает сессию.
func (s *Session) hydrate(ctx context.Context, epoch uint64, token string) error {
	user, err := s.gateway.FetchProfile(ctx, token)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		return ErrSessionChanged
	}
	if err != nil {
		s.resetLocked(ctx)
		return err
	}
	return s.commitUserLocked(user)
}

// credentials возвращает токен для аутентифицированного вызова и эпоху,
// в которой он получен. Токен, истекающий в пределах refreshSkew,
// предварительно обновляется (один раз, без повторов).
func (s *Session) credentials(ctx context.Context) (string, uint64, error) {
	s.mu.Lock()
	tok, epoch := s.token, s.epoch
	s.mu.Unlock()

	if tok == nil {
		return "", epoch, fmt.Errorf("%w: no session token", api.ErrUnauthorized)
	}
	if s.refreshSkew <= 0 || !expiresWithin(tok.ExpiresAt, s.now(), s.refreshSkew) {
		return tok.Value, epoch, nil
	}

	if err := s.RefreshToken(ctx); err != nil {
		s.logger.Warn("token refresh failed, using current token", "error", err)
		return tok.Value, epoch, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch || s.token == nil {
		return "", epoch, ErrSessionChanged
	}
	return s.token.Value, epoch, nil
}

// failed обрабатывает ошибку аутентифицированного вызова:
// Unauthorized в той же эпохе сбрасывает сессию. Ошибка возвращается как есть.
func (s *Session) failed(ctx context.Context, epoch uint64, err error) error {
	if !api.IsUnauthorized(err) {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch == epoch {
		s.resetLocked(ctx)
	}
	return err
}

// commitUserLocked единственное место, где устанавливается профиль.
// Профиль без токена не допускается.
func (s *Session) commitUserLocked(user *models.UserProfile) error {
	if user == nil {
		return fmt.Errorf("%w: empty profile", api.ErrUnexpectedStatus)
	}
	if s.token == nil {
		return fmt.Errorf("%w: no session token", api.ErrUnauthorized)
	}
	s.user = user.Clone()
	s.publishLocked()
	return nil
}

// resetLocked начинает новую эпоху без токена и профиля
func (s *Session) resetLocked(ctx context.Context) {
	s.epoch++
	s.token = nil
	s.user = nil

	// токен удаляется и при отмененном контексте вызывающего
	if err := s.tokens.Clear(context.WithoutCancel(ctx)); err != nil {
		s.logger.Error("failed to clear stored token", "error", err)
	}

	s.publishLocked()
}

func (s *Session) stateLocked() State {
	switch {
	case s.user != nil:
		return StateLoggedIn
	case s.token != nil:
		return StateHydrating
	default:
		return StateLoggedOut
	}
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		User:     s.user.Clone(),
		State:    s.stateLocked(),
		HasToken: s.token != nil,
	}
}

// publishLocked отправляет снимок подписчикам, вытесняя непрочитанный
func (s *Session) publishLocked() {
	if len(s.subscribers) == 0 {
		return
	}
	for _, ch := range s.subscribers {
		snap := s.snapshotLocked()
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

func (s *Session) newToken(resp *pkgapi.TokenResponse) Token {
	return Token{
		Value:     resp.AccessToken,
		Type:      resp.TokenType,
		ExpiresAt: tokenExpiry(resp.AccessToken, resp.ExpiresIn, s.now()),
	}
}

func (s *Session) notifyError(ctx context.Context, title string, err error) {
	s.logger.Warn(title, "error", err)
	s.notifier.Notify(ctx, Notification{
		Level:   LevelError,
		Title:   title,
		Message: err.Error(),
		Err:     err,
	})
}
