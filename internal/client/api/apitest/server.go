// Package apitest provides an in-memory Modify API for tests.
package apitest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iudanet/modify/internal/models"
	"github.com/iudanet/modify/pkg/api"
)

// RefreshCookie имя cookie с refresh token
const RefreshCookie = "refresh_token"

type ctxKey struct{}

type account struct {
	profile  models.UserProfile
	password string
	linked   []models.ConnectedAccount
}

type failure struct {
	detail string
	status int
}

// Server fake Modify API поверх httptest.Server.
// Маршруты смонтированы под /api, как у настоящего backend.
type Server struct {
	srv          *httptest.Server
	users        map[string]*account // email -> account
	access       map[string]string   // access token -> user id
	refresh      map[string]string   // refresh token -> user id
	verifyTokens map[string]string   // verification token -> user id
	resetTokens  map[string]string   // reset token -> user id
	failNext     map[string]failure  // "METHOD /path" -> one-shot failure
	calls        map[string]int
	providers    []string
	secret       []byte
	tokenTTL     time.Duration
	mu           sync.Mutex
}

// NewServer запускает fake API. Сервер закрывается через t.Cleanup вызывающего.
func NewServer() *Server {
	s := &Server{
		users:        make(map[string]*account),
		access:       make(map[string]string),
		refresh:      make(map[string]string),
		verifyTokens: make(map[string]string),
		resetTokens:  make(map[string]string),
		failNext:     make(map[string]failure),
		calls:        make(map[string]int),
		providers:    []string{string(models.AuthProviderGoogle), string(models.AuthProviderDiscord)},
		secret:       []byte(uuid.NewString()),
		tokenTTL:     time.Hour,
	}
	s.srv = httptest.NewServer(s.routes())
	return s
}

// Close останавливает сервер
func (s *Server) Close() {
	s.srv.Close()
}

// BaseURL адрес API с префиксом /api
func (s *Server) BaseURL() string {
	return s.srv.URL + "/api"
}

// SetTokenTTL задает время жизни новых access token
func (s *Server) SetTokenTTL(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenTTL = ttl
}

// SetProviders задает список настроенных OAuth провайдеров
func (s *Server) SetProviders(providers ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.providers = providers
}

// FailNext заставляет следующий запрос method path (без /api) вернуть status
func (s *Server) FailNext(method, path string, status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext[method+" "+path] = failure{status: status, detail: detail}
}

// Calls количество запросов к method path (без /api)
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method+" "+path]
}

// RevokeAccess отзывает все выданные access token
func (s *Server) RevokeAccess() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.access)
}

// VerificationToken токен из письма подтверждения для email
func (s *Server) VerificationToken(email string) string {
	return s.tokenFor(s.verifyTokens, email)
}

// ResetToken токен из письма сброса пароля для email
func (s *Server) ResetToken(email string) string {
	return s.tokenFor(s.resetTokens, email)
}

// CompleteOAuth имитирует успешный callback провайдера: создает или связывает
// пользователя и возвращает URL редиректа на frontend с access token.
func (s *Server) CompleteOAuth(provider, email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.users[email]
	if !ok {
		acc = s.newAccountLocked(email, "", models.AuthProvider(provider), nil)
		acc.profile.EmailVerified = true
	}
	if !slices.ContainsFunc(acc.linked, func(a models.ConnectedAccount) bool { return string(a.Provider) == provider }) {
		now := time.Now().UTC().Truncate(time.Second)
		acc.linked = append(acc.linked, models.ConnectedAccount{
			Provider:       models.AuthProvider(provider),
			ProviderUserID: uuid.NewString(),
			Email:          email,
			ConnectedAt:    &now,
		})
	}

	token := s.issueAccessLocked(acc.profile.ID)
	return "http://localhost:3000/auth/callback?token=" + token
}

func (s *Server) tokenFor(m map[string]string, email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.users[email]
	if !ok {
		return ""
	}
	for tok, id := range m {
		if id == acc.profile.ID {
			return tok
		}
	}
	return ""
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.track)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/refresh", s.handleRefresh)
		r.Post("/logout", s.handleLogout)
		r.Post("/verify-email", s.handleVerifyEmail)
		r.Post("/forgot-password", s.handleForgotPassword)
		r.Post("/reset-password", s.handleResetPassword)
		r.Get("/oauth/providers", s.handleProviders)
		r.Get("/oauth/{provider}", s.handleAuthorizationURL)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			r.Get("/me", s.handleMe)
			r.Put("/me", s.handleUpdateMe)
			r.Get("/me/hardware", s.handleGetHardware)
			r.Put("/me/hardware", s.handlePutHardware)
			r.Get("/me/connected-accounts", s.handleConnectedAccounts)
			r.Delete("/me/connected-accounts/{provider}", s.handleDisconnect)
			r.Post("/resend-verification", s.handleResendVerification)
			r.Post("/change-password", s.handleChangePassword)
		})
	})

	return r
}

// track считает вызовы и отдает заранее заданные ошибки
func (s *Server) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api")

		s.mu.Lock()
		s.calls[key]++
		f, fail := s.failNext[key]
		delete(s.failNext, key)
		s.mu.Unlock()

		if fail {
			writeError(w, f.status, f.detail)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		if _, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})); err != nil {
			writeError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		s.mu.Lock()
		userID, ok := s.access[raw]
		s.mu.Unlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	var issues []map[string]any
	if !strings.Contains(req.Email, "@") {
		issues = append(issues, map[string]any{"loc": []string{"body", "email"}, "msg": "value is not a valid email address"})
	}
	if len(req.Password) < 8 {
		issues = append(issues, map[string]any{"loc": []string{"body", "password"}, "msg": "String should have at least 8 characters"})
	}
	if len(issues) > 0 {
		writeError(w, http.StatusUnprocessableEntity, issues)
		return
	}

	s.mu.Lock()
	if _, exists := s.users[req.Email]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "An account with this email already exists")
		return
	}
	acc := s.newAccountLocked(req.Email, req.Password, models.AuthProviderLocal, req.DisplayName)
	s.verifyTokens[uuid.NewString()] = acc.profile.ID
	resp := s.issueTokensLocked(w, acc.profile.ID)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	acc, ok := s.users[req.Email]
	if !ok || acc.password == "" || acc.password != req.Password {
		s.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	resp := s.issueTokensLocked(w, acc.profile.ID)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(RefreshCookie)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Refresh token missing")
		return
	}

	s.mu.Lock()
	userID, ok := s.refresh[c.Value]
	if !ok {
		s.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	// ротация refresh token
	delete(s.refresh, c.Value)
	resp := s.issueTokensLocked(w, userID)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		delete(s.access, raw)
	}
	if c, err := r.Cookie(RefreshCookie); err == nil {
		delete(s.refresh, c.Value)
	}
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: RefreshCookie, Path: "/api/auth", MaxAge: -1, HttpOnly: true})
	writeJSON(w, http.StatusOK, api.StatusResponse{Status: "ok", Message: "Logged out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	acc := s.current(r)
	if acc == nil {
		writeError(w, http.StatusUnauthorized, "User not found")
		return
	}
	s.mu.Lock()
	profile := *acc.profile.Clone()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateProfileRequest
	if !decode(w, r, &req) {
		return
	}
	acc := s.current(r)
	if acc == nil {
		writeError(w, http.StatusUnauthorized, "User not found")
		return
	}

	s.mu.Lock()
	if req.DisplayName != nil {
		acc.profile.DisplayName = req.DisplayName
	}
	if req.AvatarURL != nil {
		acc.profile.AvatarURL = req.AvatarURL
	}
	profile := *acc.profile.Clone()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleGetHardware(w http.ResponseWriter, r *http.Request) {
	acc := s.current(r)
	if acc == nil {
		writeError(w, http.StatusUnauthorized, "User not found")
		return
	}
	s.mu.Lock()
	hw := acc.profile.Hardware.Clone()
	s.mu.Unlock()
	// null, если железо еще не сохранялось
	writeJSON(w, http.StatusOK, hw)
}

func (s *Server) handlePutHardware(w http.ResponseWriter, r *http.Request) {
	var req api.HardwareUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	acc := s.current(r)
	if acc == nil {
		writeError(w, http.StatusUnauthorized, "User not found")
		return
	}

	s.mu.Lock()
	hw := acc.profile.Hardware
	if hw == nil {
		hw = &models.HardwareProfile{}
	}
	if req.GPUModel != nil {
		hw.GPUModel = req.GPUModel
	}
	if req.CPUModel != nil {
		hw.CPUModel = req.CPUModel
	}
	if req.RAMGB != nil {
		hw.RAMGB = req.RAMGB
	}
	if req.VRAMMB != nil {
		hw.VRAMMB = req.VRAMMB
	}
	if req.CPUCores != nil {
		hw.CPUCores = req.CPUCores
	}
	if req.CPUSpeedGHz != nil {
		hw.CPUSpeedGHz = req.CPUSpeedGHz
	}
	if req.HardwareRawText != nil {
		hw.HardwareRawText = req.HardwareRawText
	}
	tier := hardwareTier(hw)
	hw.HardwareTier = &tier
	acc.profile.Hardware = hw
	out := hw.Clone()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleProviders(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	providers := slices.Clone(s.providers)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, api.OAuthProvidersResponse{Providers: providers})
}

func (s *Server) handleAuthorizationURL(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	s.mu.Lock()
	supported := slices.Contains(s.providers, provider)
	s.mu.Unlock()
	if !supported {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unsupported OAuth provider: %s", provider))
		return
	}

	state := uuid.NewString()
	writeJSON(w, http.StatusOK, api.AuthorizationURLResponse{
		AuthorizationURL: fmt.Sprintf("https://%s.example.com/oauth/authorize?client_id=modify&state=%s", provider, state),
		State:            state,
	})
}

func (s *Server) handleConnectedAccounts(w http.ResponseWriter, r *http.Request) {
	acc := s.current(r)
	if acc == nil {
		writeError(w, http.StatusUnauthorized, "User not found")
		return
	}
	s.mu.Lock()
	linked := slices.Clone(acc.linked)
	s.mu.Unlock()
	if linked == nil {
		linked = []models.ConnectedAccount{}
	}
	writeJSON(w, http.StatusOK, linked)
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	acc := s.current(r)
	if acc == nil {
		writeError(w, http.StatusUnauthorized, "User not found")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(acc.linked, func(a models.ConnectedAccount) bool { return string(a.Provider) == provider })
	if idx < 0 {
		writeError(w, http.StatusNotFound, "Connected account not found")
		return
	}
	// нельзя отвязать единственный способ входа
	if acc.password == "" && len(acc.linked) == 1 {
		writeError(w, http.StatusBadRequest, "Cannot disconnect the only login method")
		return
	}
	acc.linked = slices.Delete(acc.linked, idx, idx+1)
	writeJSON(w, http.StatusOK, api.StatusResponse{Status: "ok"})
}

func (s *Server) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req api.VerifyEmailRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.verifyTokens[req.Token]
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid or expired verification token")
		return
	}
	delete(s.verifyTokens, req.Token)
	if acc := s.byIDLocked(userID); acc != nil {
		acc.profile.EmailVerified = true
	}
	writeJSON(w, http.StatusOK, api.StatusResponse{Status: "ok", Message: "Email verified"})
}

func (s *Server) handleResendVerification(w http.ResponseWriter, r *http.Request) {
	acc := s.current(r)
	if acc == nil {
		writeError(w, http.StatusUnauthorized, "User not found")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if acc.profile.EmailVerified {
		writeError(w, http.StatusBadRequest, "Email already verified")
		return
	}
	for tok, id := range s.verifyTokens {
		if id == acc.profile.ID {
			delete(s.verifyTokens, tok)
		}
	}
	s.verifyTokens[uuid.NewString()] = acc.profile.ID
	writeJSON(w, http.StatusOK, api.StatusResponse{Status: "ok", Message: "Verification email sent"})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req api.ForgotPasswordRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	if acc, ok := s.users[req.Email]; ok {
		s.resetTokens[uuid.NewString()] = acc.profile.ID
	}
	s.mu.Unlock()

	// ответ не раскрывает, существует ли аккаунт
	writeJSON(w, http.StatusOK, api.StatusResponse{Status: "ok", Message: "If the account exists, an email has been sent"})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req api.ResetPasswordRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.resetTokens[req.Token]
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid or expired reset token")
		return
	}
	if len(req.NewPassword) < 8 {
		writeError(w, http.StatusUnprocessableEntity, []map[string]any{{"msg": "String should have at least 8 characters"}})
		return
	}
	delete(s.resetTokens, req.Token)
	if acc := s.byIDLocked(userID); acc != nil {
		acc.password = req.NewPassword
	}
	writeJSON(w, http.StatusOK, api.StatusResponse{Status: "ok", Message: "Password has been reset"})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req api.ChangePasswordRequest
	if !decode(w, r, &req) {
		return
	}
	acc := s.current(r)
	if acc == nil {
		writeError(w, http.StatusUnauthorized, "User not found")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if acc.password == "" || acc.password != req.CurrentPassword {
		writeError(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	acc.password = req.NewPassword
	writeJSON(w, http.StatusOK, api.StatusResponse{Status: "ok", Message: "Password changed"})
}

func (s *Server) current(r *http.Request) *account {
	userID, _ := r.Context().Value(ctxKey{}).(string)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byIDLocked(userID)
}

func (s *Server) byIDLocked(id string) *account {
	for _, acc := range s.users {
		if acc.profile.ID == id {
			return acc
		}
	}
	return nil
}

func (s *Server) newAccountLocked(email, password string, provider models.AuthProvider, displayName *string) *account {
	acc := &account{
		profile: models.UserProfile{
			ID:           uuid.NewString(),
			Email:        email,
			DisplayName:  displayName,
			AuthProvider: provider,
		},
		password: password,
	}
	s.users[email] = acc
	return acc
}

func (s *Server) issueAccessLocked(userID string) string {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	// подпись HMAC с известным ключом не может завершиться ошибкой
	signed, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	s.access[signed] = userID
	return signed
}

func (s *Server) issueTokensLocked(w http.ResponseWriter, userID string) api.TokenResponse {
	access := s.issueAccessLocked(userID)

	refresh := uuid.NewString()
	s.refresh[refresh] = userID
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    refresh,
		Path:     "/api/auth",
		MaxAge:   int((7 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return api.TokenResponse{
		AccessToken: access,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
	}
}

func hardwareTier(hw *models.HardwareProfile) string {
	switch {
	case hw.VRAMMB == nil:
		return "unknown"
	case *hw.VRAMMB >= 16000:
		return "high"
	case *hw.VRAMMB >= 8000:
		return "mid"
	default:
		return "low"
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusUnprocessableEntity, []map[string]any{{"msg": "Invalid JSON body"}})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail any) {
	writeJSON(w, status, map[string]any{"detail": detail})
}
