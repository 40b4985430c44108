package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/modify/internal/client/api"
	"github.com/iudanet/modify/internal/client/storage"
	"github.com/iudanet/modify/internal/crypto"
	"github.com/iudanet/modify/internal/models"
	pkgapi "github.com/iudanet/modify/pkg/api"
)

// mockAuthStorage implements storage.AuthStorage for testing
type mockAuthStorage struct {
	data      *storage.AuthData
	saveErr   error
	getErr    error
	deleteErr error
	mu        sync.Mutex
}

func (m *mockAuthStorage) SaveAuth(ctx context.Context, auth *storage.AuthData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	// Сохраняем копию данных
	cp := *auth
	m.data = &cp
	return nil
}

func (m *mockAuthStorage) GetAuth(ctx context.Context) (*storage.AuthData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.data == nil {
		return nil, storage.ErrAuthNotFound
	}
	// Возвращаем копию
	cp := *m.data
	return &cp, nil
}

func (m *mockAuthStorage) DeleteAuth(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if m.data == nil {
		return storage.ErrAuthNotFound
	}
	m.data = nil
	return nil
}

func (m *mockAuthStorage) token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return ""
	}
	return m.data.AccessToken
}

type recordingNavigator struct {
	redirectErr error
	redirects   []string
	toLogin     int
	mu          sync.Mutex
}

func (n *recordingNavigator) Redirect(url string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.redirects = append(n.redirects, url)
	return n.redirectErr
}

func (n *recordingNavigator) NavigateToLogin() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toLogin++
}

type recordingNotifier struct {
	notes []Notification
	mu    sync.Mutex
}

func (n *recordingNotifier) Notify(_ context.Context, note Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func tokenResp(token string) *pkgapi.TokenResponse {
	return &pkgapi.TokenResponse{AccessToken: token, TokenType: "bearer", ExpiresIn: 3600}
}

func unauthorized() error {
	return &api.Error{Op: "test", StatusCode: 401, Kind: api.ErrUnauthorized, Message: "Could not validate credentials"}
}

// profiles maps tokens to the user the fake server knows them by
func profilesByToken(users map[string]*models.UserProfile) func(context.Context, string) (*models.UserProfile, error) {
	return func(_ context.Context, token string) (*models.UserProfile, error) {
		u, ok := users[token]
		if !ok {
			return nil, unauthorized()
		}
		return u.Clone(), nil
	}
}

func newTestSession(t *testing.T, gw Gateway, st *mockAuthStorage, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithLogger(testLogger())}, opts...)
	s, err := NewSession(context.Background(), gw, NewTokenStore(st, nil), opts...)
	require.NoError(t, err)
	return s
}

// assertConsistent проверяет производные значения относительно профиля
func assertConsistent(t *testing.T, s *Session) {
	t.Helper()
	snap := s.Snapshot()
	assert.Equal(t, s.User() != nil, s.IsLoggedIn())
	assert.Equal(t, snap.User != nil, snap.IsLoggedIn())
	if snap.User != nil {
		assert.True(t, snap.HasToken, "user present without token")
		assert.Equal(t, StateLoggedIn, snap.State)
	}
	if !snap.HasToken {
		assert.Equal(t, StateLoggedOut, snap.State)
	}
}

func TestNewSession_InitialState(t *testing.T) {
	gw := &GatewayMock{}

	s := newTestSession(t, gw, &mockAuthStorage{})
	assert.Equal(t, StateLoggedOut, s.State())
	assert.False(t, s.IsLoggedIn())

	st := &mockAuthStorage{data: &storage.AuthData{AccessToken: "tok-saved"}}
	s = newTestSession(t, gw, st)
	assert.Equal(t, StateHydrating, s.State())
	assert.Nil(t, s.User())
	assert.True(t, s.Snapshot().HasToken)
}

func TestNewSession_StorageError(t *testing.T) {
	st := &mockAuthStorage{getErr: errors.New("disk on fire")}
	_, err := NewSession(context.Background(), &GatewayMock{}, NewTokenStore(st, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestNewSession_SealedWithoutKey(t *testing.T) {
	st := &mockAuthStorage{data: &storage.AuthData{AccessToken: "c2VhbGVk", Sealed: true}}
	s, err := NewSession(context.Background(), &GatewayMock{}, NewTokenStore(st, nil))
	require.NoError(t, err)
	assert.Equal(t, StateLoggedOut, s.State())
	assert.Nil(t, st.data)
}

func TestNewSession_WrongPassphrase(t *testing.T) {
	ctx := context.Background()
	st := &mockAuthStorage{}
	require.NoError(t, NewTokenStore(st, testSealer(t)).Save(ctx, Token{Value: "tok-old"}))

	other, err := crypto.NewSealer(make([]byte, crypto.KeySize))
	require.NoError(t, err)
	tokens := NewTokenStore(st, other)

	gw := &GatewayMock{
		LoginFunc: func(context.Context, pkgapi.LoginRequest) (*pkgapi.TokenResponse, error) {
			return tokenResp("tok-new"), nil
		},
		FetchProfileFunc: func(context.Context, string) (*models.UserProfile, error) {
			return &models.UserProfile{ID: "u1", Email: "alice@example.com"}, nil
		},
		LogoutFunc: func(context.Context, string) error { return nil },
	}
	s, err := NewSession(ctx, gw, tokens)
	require.NoError(t, err)
	assert.Equal(t, StateLoggedOut, s.State())
	assert.Nil(t, st.data)

	// logout и повторный вход работают с новым ключом
	s.Logout(ctx)
	require.NoError(t, s.Login(ctx, "alice@example.com", "password1"))
	assert.Equal(t, StateLoggedIn, s.State())

	tok, err := tokens.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-new", tok.Value)
}

func TestSession_LoginLogoutLogin(t *testing.T) {
	alice := &models.UserProfile{ID: "u-alice", Email: "alice@example.com", AuthProvider: models.AuthProviderLocal}
	bob := &models.UserProfile{ID: "u-bob", Email: "bob@example.com", AuthProvider: models.AuthProviderLocal}

	gw := &GatewayMock{
		LoginFunc: func(_ context.Context, req pkgapi.LoginRequest) (*pkgapi.TokenResponse, error) {
			return tokenResp("tok-" + req.Email), nil
		},
		FetchProfileFunc: profilesByToken(map[string]*models.UserProfile{
			"tok-alice@example.com": alice,
			"tok-bob@example.com":   bob,
		}),
		LogoutFunc: func(context.Context, string) error { return nil },
	}
	nav := &recordingNavigator{}
	st := &mockAuthStorage{}
	s := newTestSession(t, gw, st, WithNavigator(nav))
	ctx := context.Background()

	require.NoError(t, s.Login(ctx, "alice@example.com", "password1"))
	assertConsistent(t, s)
	assert.Equal(t, alice, s.User())
	assert.Equal(t, "tok-alice@example.com", st.token())

	s.Logout(ctx)
	assertConsistent(t, s)
	assert.Equal(t, StateLoggedOut, s.State())
	assert.Nil(t, s.User())
	assert.Empty(t, st.token())
	assert.Equal(t, 1, nav.toLogin)
	require.Len(t, gw.LogoutCalls(), 1)
	assert.Equal(t, "tok-alice@example.com", gw.LogoutCalls()[0].Token)

	require.NoError(t, s.Login(ctx, "bob@example.com", "password1"))
	assertConsistent(t, s)
	assert.Equal(t, bob, s.User())
	assert.Equal(t, "tok-bob@example.com", st.token())
}

func TestSession_LoginFailure_NoMutation(t *testing.T) {
	gwErr := &api.Error{Op: "login", StatusCode: 401, Kind: api.ErrUnauthorized, Message: "Invalid email or password"}
	gw := &GatewayMock{
		LoginFunc: func(context.Context, pkgapi.LoginRequest) (*pkgapi.TokenResponse, error) {
			return nil, gwErr
		},
	}
	st := &mockAuthStorage{}
	s := newTestSession(t, gw, st)
	snaps, cancel := s.Subscribe()
	defer cancel()
	<-snaps // начальное состояние

	err := s.Login(context.Background(), "a@b.com", "wrong-password")
	assert.Same(t, gwErr, err)
	assert.Equal(t, StateLoggedOut, s.State())
	assert.Empty(t, st.token())
	assert.Empty(t, gw.FetchProfileCalls())

	select {
	case snap := <-snaps:
		t.Fatalf("unexpected state change: %+v", snap)
	default:
	}
}

func TestSession_Register(t *testing.T) {
	user := &models.UserProfile{ID: "u1", Email: "new@example.com", DisplayName: strPtr("Newbie")}
	gw := &GatewayMock{
		RegisterFunc: func(_ context.Context, req pkgapi.RegisterRequest) (*pkgapi.TokenResponse, error) {
			return tokenResp("tok-new"), nil
		},
		FetchProfileFunc: profilesByToken(map[string]*models.UserProfile{"tok-new": user}),
	}
	st := &mockAuthStorage{}
	s := newTestSession(t, gw, st)

	require.NoError(t, s.Register(context.Background(), "new@example.com", "password1", strPtr("Newbie")))

	require.Len(t, gw.RegisterCalls(), 1)
	req := gw.RegisterCalls()[0].Req
	assert.Equal(t, "new@example.com", req.Email)
	require.NotNil(t, req.DisplayName)
	assert.Equal(t, "Newbie", *req.DisplayName)

	assert.Equal(t, StateLoggedIn, s.State())
	assert.Equal(t, user, s.User())
	assert.False(t, s.IsEmailVerified())
	assert.Equal(t, "tok-new", st.token())
}

func TestSession_Register_Conflict(t *testing.T) {
	conflict := &api.Error{Op: "register", StatusCode: 409, Kind: api.ErrConflict, Message: "An account with this email already exists"}
	gw := &GatewayMock{
		RegisterFunc: func(context.Context, pkgapi.RegisterRequest) (*pkgapi.TokenResponse, error) {
			return nil, conflict
		},
	}
	s := newTestSession(t, gw, &mockAuthStorage{})

	err := s.Register(context.Background(), "taken@example.com", "password1", nil)
	assert.ErrorIs(t, err, api.ErrConflict)
	assert.Equal(t, StateLoggedOut, s.State())
}

func TestSession_Login_ProfileFailureClearsToken(t *testing.T) {
	gw := &GatewayMock{
		LoginFunc: func(context.Context, pkgapi.LoginRequest) (*pkgapi.TokenResponse, error) {
			return tokenResp("tok-1"), nil
		},
		FetchProfileFunc: func(context.Context, string) (*models.UserProfile, error) {
			return nil, &api.Error{Op: "fetch profile", StatusCode: 500, Kind: api.ErrUnexpectedStatus}
		},
	}
	st := &mockAuthStorage{}
	s := newTestSession(t, gw, st)

	err := s.Login(context.Background(), "a@b.com", "password1")
	assert.ErrorIs(t, err, api.ErrUnexpectedStatus)
	assert.Equal(t, StateLoggedOut, s.State())
	assert.Empty(t, st.token())
	assertConsistent(t, s)
}

func TestSession_Login_PersistFailure(t *testing.T) {
	gw := &GatewayMock{
		LoginFunc: func(context.Context, pkgapi.LoginRequest) (*pkgapi.TokenResponse, error) {
			return tokenResp("tok-1"), nil
		},
	}
	st := &mockAuthStorage{saveErr: errors.New("read-only filesystem")}
	s := newTestSession(t, gw, st)

	err := s.Login(context.Background(), "a@b.com", "password1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to persist token")
	assert.Equal(t, StateLoggedOut, s.State())
	assert.Empty(t, gw.FetchProfileCalls())
}

func TestSession_Bootstrap(t *testing.T) {
	user := &models.UserProfile{ID: "u1", Email: "a@b.com", EmailVerified: true}
	gw := &GatewayMock{
		FetchProfileFunc: profilesByToken(map[string]*models.UserProfile{"tok-saved": user}),
	}
	st := &mockAuthStorage{data: &storage.AuthData{AccessToken: "tok-saved"}}
	s := newTestSession(t, gw, st)

	s.Bootstrap(context.Background())
	assert.Equal(t, StateLoggedIn, s.State())
	assert.True(t, s.IsEmailVerified())
	assertConsistent(t, s)

	// повторный вызов не делает запросов
	s.Bootstrap(context.Background())
	assert.Len(t, gw.FetchProfileCalls(), 1)
}

func TestSession_Bootstrap_RejectedToken(t *testing.T) {
	gw := &GatewayMock{
		FetchProfileFunc: func(context.Context, string) (*models.UserProfile, error) {
			return nil, unauthorized()
		},
	}
	st := &mockAuthStorage{data: &storage.AuthData{AccessToken: "tok-revoked"}}
	s := newTestSession(t, gw, st)
	require.Equal(t, StateHydrating, s.State())

	s.Bootstrap(context.Background())
	assert.Equal(t, StateLoggedOut, s.State())
	assert.Empty(t, st.token())
	assertConsistent(t, s)

	s.Bootstrap(context.Background())
	assert.Equal(t, StateLoggedOut, s.State())
	assert.Empty(t, st.token())
	assert.Len(t, gw.FetchProfileCalls(), 1)
}

func TestSession_Bootstrap_NetworkFailureLogsOut(t *testing.T) {
	gw := &GatewayMock{
		FetchProfileFunc: func(context.Context, string) (*models.UserProfile, error) {
			return nil, api.ErrNetworkUnavailable
		},
	}
	st := &mockAuthStorage{data: &storage.AuthData{AccessToken: "tok-saved"}}
	s := newTestSession(t, gw, st)

	s.Bootstrap(context.Background())
	assert.Equal(t, StateLoggedOut, s.State())
	assert.Empty(t, st.token())
}

func TestSession_Bootstrap_NoToken(t *testing.T) {
	gw := &GatewayMock{}
	s := newTestSession(t, gw, &mockAuthStorage{})

	s.Bootstrap(context.Background())
	assert.Equal(t, StateLoggedOut, s.State())
	assert.Empty(t, gw.FetchProfileCalls())
}

func TestSession_Logout_ServerFailure(t *testing.T) {
	user := &models.UserProfile{ID: "u1", Email: "a@b.com"}
	gw := &GatewayMock{
		FetchProfileFunc: profilesByToken(map[string]*models.UserProfile{"tok-saved": user}),
		LogoutFunc: func(context.Context, string) error {
			return api.ErrNetworkUnavailable
		},
	}
	nav := &recordingNavigator{}
	st := &mockAuthStorage{data: &storage.AuthData{AccessToken: "tok-saved"}}
	s := newTestSession(t, gw, st, WithNavigator(nav))
	s.Bootstrap(context.Background())
	require.True(t, s.IsLoggedIn())

	s.Logout(context.Background())

	assert.Equal(t, StateLoggedOut, s.State())
	assert.Nil(t, s.User())
	assert.Empty(t, st.token())
	assert.Equal(t, 1, nav.toLogin)
	assertConsistent(t, s)
}

func TestSession_Logout_StorageFailure(t *testing.T) {
	user := &models.UserProfile{ID: "u1", Email: "a@b.com"}
	gw := &GatewayMock{
		FetchProfileFunc: profilesByToken(map[string]*models.UserProfile{"tok-saved": user}),
		LogoutFunc:       func(context.Context, string) error { return nil },
	}
	st := &mockAuthStorage{data: &storage.AuthData{AccessToken: "tok-saved"}}
	s := newTestSession(t, gw, st)
	s.Bootstrap(context.Background())

	st.deleteErr = errors.New("locked")
	s.Logout(context.Background())

	// в памяти сессия сброшена даже если хранилище недоступно
	assert.Equal(t, StateLoggedOut, s.State())
	assert.Nil(t, s.User())
}

func TestSession_Logout_Timeout(t *testing.T) {
	gw := &GatewayMock{
		LogoutFunc: func(ctx context.Context, _ string) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}
	s := newTestSession(t, gw, &mockAuthStorage{}, WithLogoutTimeout(20*time.Millisecond))

	done := make(chan struct{})
	go func() {
		s.Logout(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("logout did not respect timeout")
	}
}

// TestSession_FetchAfterLogout загрузка профиля, завершившаяся после logout,
// не должна восстановить пользователя
func TestSession_FetchAfterLogout(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	user := &models.UserProfile{ID: "u1", Email: "a@b.com"}

	gw := &GatewayMock{
		FetchProfileFunc: func(context.Context, string) (*models.UserProfile, error) {
			close(started)
			<-release
			return user.Clone(), nil
		},
		LogoutFunc: func(context.Context, string) error { return nil },
	}
	st := &mockAuthStorage{data: &storage.AuthData{AccessToken: "tok-saved"}}
	s := newTestSession(t, gw, st)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.LoadProfile(context.Background())
	}()

	<-started
	s.Logout(context.Background())
	close(release)

	err := <-errCh
	assert.ErrorIs(t, err, ErrSessionChanged)
	assert.Equal(t, StateLoggedOut, s.State())
	assert.Nil(t, s.User())
	assert.Empty(t, st.token())
}

// TestSession_StaleUnauthorized 401 от старой сессии не сбрасывает новую
func TestSession_StaleUnauthorized(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	alice := &models.UserProfile{ID: "u-alice", Email: "alice@example.com"}
	bob := &models.UserProfile{ID: "u-bob", Email: "bob@example.com"}

	gw := &GatewayMock{
		LoginFunc: func(_ context.Context, req pkgapi.LoginRequest) (*pkgapi.TokenResponse, error) {
			return tokenResp("tok-" + req.Email), nil
		},
		FetchProfileFunc: profilesByToken(map[string]*models.UserProfile{
			"tok-alice@example.com": alice,
			"tok-bob@example.com":   bob,
		}),
		UpdateProfileFunc: func(_ context.Context, token string, _ pkgapi.UpdateProfileRequest) (*models.UserProfile, error) {
			close(started)
			<-release
			return nil, unauthorized()
		},
	}
	st := &mockAuthStorage{}
	s := newTestSession(t, gw, st)
	ctx := context.Background()
	require.NoError(t, s.Login(ctx, "alice@example.com", "password1"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.UpdateProfile(ctx, pkgapi.UpdateProfileRequest{DisplayName: strPtr("Al")})
	}()

	<-started
	require.NoError(t, s.Login(ctx, "bob@example.com", "password1"))
	close(release)

	err := <-errCh
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Equal(t, bob, s.User())
	assert.Equal(t, "tok-bob@example.com", st.token())
}

func TestSession_LoadProfile_NoToken(t *testing.T) {
	gw := &GatewayMock{}
	s := newTestSession(t, gw, &mockAuthStorage{})

	err := s.LoadProfile(context.Background())
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Empty(t, gw.FetchProfileCalls())

	_, err = s.FetchHardware(context.Background())
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Empty(t, gw.FetchHardwareCalls())
}

func TestSession_UpdateProfile(t *testing.T) {
	user := &models.UserProfile{ID: "u1", Email: "a@b.com", DisplayName: strPtr("Old")}
	updated := &models.UserProfile{ID: "u1", Email: "a@b.com", DisplayName: strPtr("New"), AvatarURL: strPtr("https://img/a.png")}

	gw := &GatewayMock{
		FetchProfileFunc: profilesByToken(map[string]*models.UserProfile{"tok-saved": user}),
		UpdateProfileFunc: func(_ context.Context, token string, req pkgapi.UpdateProfileRequest) (*models.UserProfile, error) {
			assert.Equal(t, "tok-saved", token)
			return updated.Clone(), nil
		},
	}
	st := &mockAuthStorage{data: &storage.AuthData{AccessToken: "tok-saved"}}
	s := newTestSession(t, gw, st)
	s.Bootstrap(context.Background())

	require.NoError(t, s.UpdateProfile(context.Background(), pkgapi.UpdateProfileRequest{DisplayName: strPtr("New")}))
	if diff := cmp.Diff(updated, s.User()); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_UpdateProfile_Errors(t *testing.T) {
	tests := []struct {
		err       error
		name      string
		wantState State
	}{
		{name: "validation keeps session", err: &api.Error{StatusCode: 422, Kind: api.ErrValidation}, wantState: StateLoggedIn},
		{name: "network keeps session", err: api.ErrNetworkUnavailable, wantState: StateLoggedIn},
		{name: "unauthorized resets session", err: unauthorized(), wantState: StateLoggedOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &models.UserProfile{ID: "u1", Email: "a@b.com", DisplayName: strPtr("Old")}
			gw := &GatewayMock{
				FetchProfileFunc: profilesByToken(map[string]*models.UserProfile{"tok-saved": user}),
				UpdateProfileFunc: func(context.Context, string, pkgapi.UpdateProfileRequest) (*models.UserProfile, error) {
					return nil, tt.err
				},
			}
			st := &mockAuthStorage{data: &storage.AuthData{AccessToken: "tok-saved"}}
			s := newTestSession(t, gw, st)
			s.Bootstrap(context.Background())

			err := s.UpdateProfile(context.Background(), pkgapi.UpdateProfileRequest{DisplayName: strPtr("New")})
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.wantState, s.State())
			assertConsistent(t, s)
			if tt.wantState == StateLoggedIn {
				assert.Equal(t, "Old", *s.User().DisplayName)
				assert.Equal(t, "tok-saved", st.token())
			} else {
				assert.Empty(t, st.token())
			}
		})
	}
}

func TestSession_SaveHardware_MergesOnlyHardware(t *testing.T) {
	user := &models.UserProfile{
		ID:            "u1",
		Email:         "a@b.com",
		EmailVerified: true,
		DisplayName:   strPtr("Alice"),
		AvatarURL:     strPtr("https://img/a.png"),
		AuthProvider:  models.AuthProviderGoogle,
		Hardware:      &models.HardwareProfile{GPUModel: strPtr("GTX1060")},
	}
	saved := &models.HardwareProfile{
		GPUModel:     strPtr("RTX4080"),
		VRAMMB:       intPtr(16000),
		RAMGB:        intPtr(32),
		HardwareTier: strPtr("high"),
	}

	gw := &GatewayMock{
		FetchProfileFunc: profilesByToken(map[string]*models.UserProfile{"tok-saved": user}),
		SaveHardwareFunc: func(_ context.Context, _ string, req pkgapi.HardwareUpdateRequest) (*models.HardwareProfile, error) {
			return saved.Clone(), nil
		},
	}
	st := &mockAuthStorage{data: &storage.AuthData{AccessToken: "tok-saved"}}
	s := newTestSession(t, gw, st)
	s.Bootstrap(context.Background())

	hw, err := s.SaveHardware(context.Background(), pkgapi.HardwareUpdateRequest{GPUModel: strPtr("RTX4080"), VRAMMB: intPtr(16000), RAMGB: intPtr(32)})
	require.NoError(t, err)
	assert.Equal(t, saved, hw)

	want := user.Clone()
	want.Hardware = saved.Clone()
	if diff := cmp.Diff(want, s.User()); diff != "" {
		t.Errorf("only hardware should change (-want +got):\n%s", diff)
	}
	assert.Equal(t, saved, s.SavedHardware())
}

func TestSession_SaveHardware_NoUserIsNoop(t *testing.T) {
	hw := &models.HardwareProfile{RAMGB: intPtr(16)}
	gw := &GatewayMock{
		SaveHardwareFunc: func(context.Context, string, pkgapi.HardwareUpdateRequest) (*models.HardwareProfile, error) {
			return hw.Clone(), nil
		},
	}
	// токен есть, профиль еще не загружен
	st := &mockAuthStorage{data: &storage.AuthData{AccessToken: "tok-saved"}}
	s := newTestSession(t, gw, st)

	got, err := s.SaveHardware(context.Background(), pkgapi.HardwareUpdateRequest{RAMGB: intPtr(16)})
	require.NoError(t, err)
	assert.Equal(t, hw, got)
	assert.Nil(t, s.User())
	assert.Nil(t, s.SavedHardware())
	assert.Equal(t, StateHydrating, s.State())
}

func TestSession_FetchHardware(t *testing.T) {
	gw := &GatewayMock{
		FetchHardwareFunc: func(context.Context, string) (*models.HardwareProfile, error) {
			return nil, nil
		},
	}
	st := &mockAuthStorage{data: &storage.AuthData{AccessToken: "tok-saved"}}
	s := newTestSession(t, gw, st)

	hw, err := s.FetchHardware(context.Background())
	require.NoError(t, err)
	assert.Nil(t, hw)
	require.Len(t, gw.FetchHardwareCalls(), 1)
	assert.Equal(t, "tok-saved", gw.FetchHardwareCalls()[0].Token)
}

func TestSession_RefreshToken(t *testing.T) {
	user := &models.UserProfile{ID: "u1", Email: "a@b.com"}
	gw := &GatewayMock{
		FetchProfileFunc: profilesByToken(map[string]*models.UserProfile{"tok-saved": user}),
		RefreshFunc: func(context.Context) (*pkgapi.TokenResponse, error) {
			return tokenResp("tok-refreshed"), nil
		},
	}
	st := &mockAuthStorage{data: &storage.AuthData{AccessToken: "tok-saved"}}
	s := newTestSession(t, gw, st)
	s.Bootstrap(context.Background())

	require.NoError(t, s.RefreshToken(context.Background()))
	assert.Equal(t, "tok-refreshed", st.token())
	assert.Equal(t, user, s.User())
	assert.Equal(t, StateLoggedIn, s.State())
	assert.Len(t, gw.FetchProfileCalls(), 1)
}

func TestSession_RefreshToken_Failure(t *testing.T) {
	user := &models.UserProfile{ID: "u1", Email: "a@b.com"}
	gw := &GatewayMock{
		FetchProfileFunc: profilesByToken(map[string]*models.UserProfile{"tok-saved": user}),
		RefreshFunc: func(context.Context) (*pkgapi.TokenResponse, error) {
			return nil, unauthorized()
		},
	}
	st := &mockAuthStorage{data: &storage.AuthData{AccessToken: "tok-saved"}}
	s := newTestSession(t, gw, st)
	s.Bootstrap(context.Background())

	err := s.RefreshToken(context.Background())
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Equal(t, "tok-saved", st.token())
	assert.Equal(t, StateLoggedIn, s.State())
}

func TestSession_ProactiveRefresh(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	user := &models.UserProfile{ID: "u1", Email: "a@b.com"}

	gw := &GatewayMock{
		LoginFunc: func(context.Context, pkgapi.LoginRequest) (*pkgapi.TokenResponse, error) {
			// истекает через 30s, внутри окна в 60s
			return &pkgapi.TokenResponse{AccessToken: "tok-short", ExpiresIn: 30}, nil
		},
		RefreshFunc: func(context.Context) (*pkgapi.TokenResponse, error) {
			return tokenResp("tok-long"), nil
		},
		FetchProfileFunc: profilesByToken(map[string]*models.UserProfile{
			"tok-short": user,
			"tok-long":  user,
		}),
		ListConnectedAccountsFunc: func(_ context.Context, token string) ([]models.ConnectedAccount, error) {
			return []models.ConnectedAccount{}, nil
		},
	}
	st := &mockAuthStorage{}
	s := newTestSession(t, gw, st, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	// hydrate сразу после входа использует только что полученный токен
	require.NoError(t, s.Login(ctx, "a@b.com", "password1"))
	assert.Empty(t, gw.RefreshCalls())

	_, err := s.ConnectedAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, gw.RefreshCalls(), 1)
	assert.Equal(t, "tok-long", gw.ListConnectedAccountsCalls()[0].Token)
	assert.Equal(t, "tok-long", st.token())

	// новый токен действует час: больше обновлений не нужно
	_, err = s.ConnectedAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, gw.RefreshCalls(), 1)
}

func TestSession_ProactiveRefresh_FailureProceeds(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	st := &mockAuthStorage{data: &storage.AuthData{AccessToken: "tok-old", ExpiresAt: now.Add(10 * time.Second).Unix()}}

	gw := &GatewayMock{
		RefreshFunc: func(context.Context) (*pkgapi.TokenResponse, error) {
			return nil, api.ErrNetworkUnavailable
		},
		FetchHardwareFunc: func(context.Context, string) (*models.HardwareProfile, error) {
			return nil, nil
		},
	}
	s := newTestSession(t, gw, st, WithClock(func() time.Time { return now }))

	_, err := s.FetchHardware(context.Background())
	require.NoError(t, err)
	assert.Len(t, gw.RefreshCalls(), 1)
	assert.Equal(t, "tok-old", gw.FetchHardwareCalls()[0].Token)
}

func TestSession_ProactiveRefresh_Disabled(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	st := &mockAuthStorage{data: &storage.AuthData{AccessToken: "tok-old", ExpiresAt: now.Add(10 * time.Second).Unix()}}
	gw := &GatewayMock{
		FetchHardwareFunc: func(context.Context, string) (*models.HardwareProfile, error) {
			return nil, nil
		},
	}
	s := newTestSession(t, gw, st, WithClock(func() time.Time { return now }), WithRefreshSkew(0))

	_, err := s.FetchHardware(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gw.RefreshCalls())
}

func TestSession_OAuthLogin(t *testing.T) {
	gw := &GatewayMock{
		OAuthAuthorizationURLFunc: func(_ context.Context, provider string) (*pkgapi.AuthorizationURLResponse, error) {
			return &pkgapi.AuthorizationURLResponse{AuthorizationURL: "https://accounts.google.com/o/oauth2/auth?state=s1"}, nil
		},
	}
	nav := &recordingNavigator{}
	notes := &recordingNotifier{}
	s := newTestSession(t, gw, &mockAuthStorage{}, WithNavigator(nav), WithNotifier(notes))
	before := s.Snapshot()

	s.OAuthLogin(context.Background(), "google")

	assert.Equal(t, []string{"https://accounts.google.com/o/oauth2/auth?state=s1"}, nav.redirects)
	assert.Empty(t, notes.notes)
	assert.Equal(t, before, s.Snapshot())
	require.Len(t, gw.OAuthAuthorizationURLCalls(), 1)
	assert.Equal(t, "google", gw.OAuthAuthorizationURLCalls()[0].Provider)
}

func TestSession_OAuthLogin_Failures(t *testing.T) {
	tests := []struct {
		gatewayErr  error
		redirectErr error
		name        string
		provider    string
		wantCalls   int
		wantNav     int
	}{
		{name: "provider rejected", provider: "github", gatewayErr: &api.Error{StatusCode: 400, Kind: api.ErrProvider}, wantCalls: 1},
		{name: "network", provider: "discord", gatewayErr: api.ErrNetworkUnavailable, wantCalls: 1},
		{name: "invalid name", provider: "Bad Provider", wantCalls: 0},
		{name: "local is not oauth", provider: "local", wantCalls: 0},
		{name: "redirect failed", provider: "google", redirectErr: errors.New("no browser"), wantCalls: 1, wantNav: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &GatewayMock{
				OAuthAuthorizationURLFunc: func(context.Context, string) (*pkgapi.AuthorizationURLResponse, error) {
					if tt.gatewayErr != nil {
						return nil, tt.gatewayErr
					}
					return &pkgapi.AuthorizationURLResponse{AuthorizationURL: "https://example.com/auth"}, nil
				},
			}
			nav := &recordingNavigator{redirectErr: tt.redirectErr}
			notes := &recordingNotifier{}
			s := newTestSession(t, gw, &mockAuthStorage{}, WithNavigator(nav), WithNotifier(notes))

			s.OAuthLogin(context.Background(), tt.provider)

			assert.Len(t, gw.OAuthAuthorizationURLCalls(), tt.wantCalls)
			assert.Len(t, nav.redirects, tt.wantNav)
			require.Len(t, notes.notes, 1)
			assert.Equal(t, LevelError, notes.notes[0].Level)
			assert.Error(t, notes.notes[0].Err)
			assert.Equal(t, StateLoggedOut, s.State())
		})
	}
}

func TestSession_CompleteOAuth(t *testing.T) {
	user := &models.UserProfile{ID: "u1", Email: "g@example.com", AuthProvider: models.AuthProviderGoogle, EmailVerified: true}
	gw := &GatewayMock{
		FetchProfileFunc: profilesByToken(map[string]*models.UserProfile{"tok-oauth": user}),
	}
	st := &mockAuthStorage{}
	s := newTestSession(t, gw, st)

	require.NoError(t, s.CompleteOAuth(context.Background(), "http://localhost:3000/auth/callback?token=tok-oauth"))
	assert.Equal(t, user, s.User())
	assert.Equal(t, "tok-oauth", st.token())

	err := s.CompleteOAuth(context.Background(), "http://localhost:3000/auth/callback")
	assert.ErrorIs(t, err, api.ErrValidation)
	// неудачный разбор не трогает текущую сессию
	assert.Equal(t, user, s.User())
}

func TestSession_PassThroughs(t *testing.T) {
	gw := &GatewayMock{
		ListOAuthProvidersFunc: func(context.Context) ([]string, error) {
			return []string{"google"}, nil
		},
		VerifyEmailFunc:    func(context.Context, string) error { return nil },
		ForgotPasswordFunc: func(context.Context, string) error { return nil },
		ResetPasswordFunc:  func(context.Context, string, string) error { return nil },
		ResendVerificationFunc: func(context.Context, string) error {
			return nil
		},
		ChangePasswordFunc: func(context.Context, string, pkgapi.ChangePasswordRequest) error {
			return nil
		},
		DisconnectAccountFunc: func(context.Context, string, string) error { return nil },
	}
	st := &mockAuthStorage{data: &storage.AuthData{AccessToken: "tok-saved"}}
	s := newTestSession(t, gw, st)
	ctx := context.Background()

	providers, err := s.OAuthProviders(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"google"}, providers)

	require.NoError(t, s.VerifyEmail(ctx, "verify-1"))
	assert.Equal(t, "verify-1", gw.VerifyEmailCalls()[0].VerificationToken)

	require.NoError(t, s.ForgotPassword(ctx, "a@b.com"))
	assert.Equal(t, "a@b.com", gw.ForgotPasswordCalls()[0].Email)

	require.NoError(t, s.ResetPassword(ctx, "reset-1", "newpassword"))
	assert.Equal(t, "reset-1", gw.ResetPasswordCalls()[0].ResetToken)
	assert.Equal(t, "newpassword", gw.ResetPasswordCalls()[0].NewPassword)

	require.NoError(t, s.ResendVerification(ctx))
	assert.Equal(t, "tok-saved", gw.ResendVerificationCalls()[0].Token)

	require.NoError(t, s.ChangePassword(ctx, "old-password", "new-password"))
	call := gw.ChangePasswordCalls()[0]
	assert.Equal(t, "tok-saved", call.Token)
	assert.Equal(t, pkgapi.ChangePasswordRequest{CurrentPassword: "old-password", NewPassword: "new-password"}, call.Req)

	require.NoError(t, s.DisconnectAccount(ctx, "discord"))
	assert.Equal(t, "discord", gw.DisconnectAccountCalls()[0].Provider)

	// stateless операции не меняют сессию
	assert.Equal(t, StateHydrating, s.State())
}

func TestSession_Subscribe(t *testing.T) {
	user := &models.UserProfile{ID: "u1", Email: "a@b.com", DisplayName: strPtr("Alice")}
	gw := &GatewayMock{
		LoginFunc: func(context.Context, pkgapi.LoginRequest) (*pkgapi.TokenResponse, error) {
			return tokenResp("tok-1"), nil
		},
		FetchProfileFunc: profilesByToken(map[string]*models.UserProfile{"tok-1": user}),
		LogoutFunc:       func(context.Context, string) error { return nil },
	}
	s := newTestSession(t, gw, &mockAuthStorage{})

	snaps, cancel := s.Subscribe()
	initial := <-snaps
	assert.Equal(t, StateLoggedOut, initial.State)

	require.NoError(t, s.Login(context.Background(), "a@b.com", "password1"))

	// промежуточный HYDRATING вытеснен последним снимком
	latest := <-snaps
	assert.Equal(t, StateLoggedIn, latest.State)
	require.NotNil(t, latest.User)
	assert.True(t, latest.IsLoggedIn())

	// снимок независим от состояния сессии
	*latest.User.DisplayName = "Mallory"
	assert.Equal(t, "Alice", *s.User().DisplayName)

	s.Logout(context.Background())
	assert.Equal(t, StateLoggedOut, (<-snaps).State)

	cancel()
	cancel()
	_, ok := <-snaps
	assert.False(t, ok, "channel must be closed after cancel")
}

func TestSession_UserIsCopy(t *testing.T) {
	user := &models.UserProfile{ID: "u1", Email: "a@b.com", Hardware: &models.HardwareProfile{RAMGB: intPtr(16)}}
	gw := &GatewayMock{
		FetchProfileFunc: profilesByToken(map[string]*models.UserProfile{"tok-saved": user}),
	}
	s := newTestSession(t, gw, &mockAuthStorage{data: &storage.AuthData{AccessToken: "tok-saved"}})
	s.Bootstrap(context.Background())

	u := s.User()
	*u.Hardware.RAMGB = 64
	assert.Equal(t, 16, *s.SavedHardware().RAMGB)
}

func TestSession_ConcurrentAccess(t *testing.T) {
	user := &models.UserProfile{ID: "u1", Email: "a@b.com"}
	gw := &GatewayMock{
		LoginFunc: func(context.Context, pkgapi.LoginRequest) (*pkgapi.TokenResponse, error) {
			return tokenResp("tok-1"), nil
		},
		FetchProfileFunc: profilesByToken(map[string]*models.UserProfile{"tok-1": user}),
		LogoutFunc:       func(context.Context, string) error { return nil },
	}
	st := &mockAuthStorage{}
	s := newTestSession(t, gw, st)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if j%2 == 0 {
					err := s.Login(ctx, "a@b.com", "password1")
					if err != nil {
						assert.ErrorIs(t, err, ErrSessionChanged)
					}
				} else {
					s.Logout(ctx)
				}
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				snap := s.Snapshot()
				if snap.User != nil {
					assert.True(t, snap.HasToken)
				}
				_ = s.IsLoggedIn()
				_ = s.SavedHardware()
			}
		}()
	}
	wg.Wait()

	s.Logout(ctx)
	assert.Equal(t, StateLoggedOut, s.State())
	assert.Empty(t, st.token())
}
