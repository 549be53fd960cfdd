package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/scanote/internal/middleware"
	"github.com/hitoshi/scanote/internal/model"
)

// --- モック定義 ---

type mockAuthService struct {
	registerFn       func(ctx context.Context, email, password string) (*model.User, error)
	loginFn          func(ctx context.Context, email, password string) (*model.Session, error)
	logoutFn         func(ctx context.Context, sessionID string) error
	getCurrentUserFn func(ctx context.Context, sessionID string) (*model.User, error)
}

func (m *mockAuthService) Register(ctx context.Context, email, password string) (*model.User, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, email, password)
	}
	return &model.User{ID: "user-1", Email: email}, nil
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*model.Session, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return &model.Session{ID: "session-1", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, sessionID)
	}
	return nil
}

func (m *mockAuthService) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if m.getCurrentUserFn != nil {
		return m.getCurrentUserFn(ctx, sessionID)
	}
	return &model.User{ID: "user-1", Email: "user@example.com"}, nil
}

func testAuthConfig() AuthHandlerConfig {
	return AuthHandlerConfig{CookieSecure: false, SessionMaxAge: 3600}
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

// --- テスト ---

// TestAuthHandler_Register_Success は登録成功でセッションCookieが設定されることを検証する。
func TestAuthHandler_Register_Success(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testAuthConfig())

	body := `{"email":"new@example.com","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Register(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var user userResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if user.Email != "new@example.com" {
		t.Errorf("email = %s, want new@example.com", user.Email)
	}

	cookie := sessionCookie(resp)
	if cookie == nil {
		t.Fatal("session cookie should be set after register")
	}
	if cookie.Value != "session-1" {
		t.Errorf("session cookie = %s, want session-1", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
}

// TestAuthHandler_Register_EmailTaken は重複メールアドレスで409が返ることを検証する。
func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	service := &mockAuthService{
		registerFn: func(ctx context.Context, email, password string) (*model.User, error) {
			return nil, model.NewEmailTakenError()
		},
	}
	h := NewAuthHandler(service, testAuthConfig())

	body := `{"email":"taken@example.com","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Register(w, req)

	if w.Result().StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusConflict)
	}
}

// TestAuthHandler_Register_InvalidBody は不正なJSONで400が返ることを検証する。
func TestAuthHandler_Register_InvalidBody(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader("{invalid"))
	w := httptest.NewRecorder()

	h.Register(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

// TestAuthHandler_Login_Success はログイン成功でユーザー情報とCookieが返ることを検証する。
func TestAuthHandler_Login_Success(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testAuthConfig())

	body := `{"email":"user@example.com","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Login(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if sessionCookie(resp) == nil {
		t.Error("session cookie should be set after login")
	}
}

// TestAuthHandler_Login_InvalidCredentials は認証失敗で401が返ることを検証する。
func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	service := &mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (*model.Session, error) {
			return nil, model.NewInvalidCredentialsError()
		},
	}
	h := NewAuthHandler(service, testAuthConfig())

	body := `{"email":"user@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Login(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
	if sessionCookie(resp) != nil {
		t.Error("session cookie should not be set on failed login")
	}
}

// TestAuthHandler_Logout_ClearsCookie はログアウトでCookieが失効することを検証する。
func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	var loggedOutSession string
	service := &mockAuthService{
		logoutFn: func(ctx context.Context, sessionID string) error {
			loggedOutSession = sessionID
			return nil
		},
	}
	h := NewAuthHandler(service, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "session-1"})
	w := httptest.NewRecorder()

	h.Logout(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	if loggedOutSession != "session-1" {
		t.Errorf("logged out session = %s, want session-1", loggedOutSession)
	}

	cookie := sessionCookie(resp)
	if cookie == nil {
		t.Fatal("clearing cookie should be set")
	}
	if cookie.MaxAge != -1 {
		t.Errorf("cookie max age = %d, want -1", cookie.MaxAge)
	}
}

// TestAuthHandler_Me_ReturnsUser は認証済みユーザー情報が返ることを検証する。
func TestAuthHandler_Me_ReturnsUser(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "session-1"})
	w := httptest.NewRecorder()

	h.Me(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var user userResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if user.Email != "user@example.com" {
		t.Errorf("email = %s, want user@example.com", user.Email)
	}
}

// TestAuthHandler_Me_NoCookie はCookieなしで401が返ることを検証する。
func TestAuthHandler_Me_NoCookie(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()

	h.Me(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}
