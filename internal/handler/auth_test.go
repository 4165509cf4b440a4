package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chukanavi/chukanavi/internal/handler/dto"
	"github.com/chukanavi/chukanavi/internal/middleware"
)

// signup registers a user and returns the issued token.
func signup(t *testing.T, app *testApp, email, password, nickname string) (dto.UserResponse, string) {
	t.Helper()

	rec := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", dto.SignupRequest{
		Email:    email,
		Password: password,
		Nickname: nickname,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup failed: status %d, body %s", rec.Code, rec.Body.String())
	}

	var data dto.AuthData
	decodeEnvelope(t, rec, &data)
	if data.Token == "" {
		t.Fatal("expected a token in the signup response")
	}
	return data.User, data.Token
}

func TestAuthHandler_Signup(t *testing.T) {
	app := newTestApp()

	rec := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", dto.SignupRequest{
		Email:    "chen@example.com",
		Password: "secret123",
		Nickname: "Chen",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var data dto.AuthData
	env := decodeEnvelope(t, rec, &data)
	if !env.Success {
		t.Error("expected success=true")
	}
	if data.User.Email != "chen@example.com" {
		t.Errorf("unexpected email: %s", data.User.Email)
	}
	if data.User.Nickname != "Chen" {
		t.Errorf("unexpected nickname: %s", data.User.Nickname)
	}
	if data.User.ID == "" {
		t.Error("expected a user ID")
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.AuthCookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected auth cookie to be set")
	}
	if cookie.Value != data.Token {
		t.Error("cookie must carry the issued token")
	}
	if !cookie.HttpOnly {
		t.Error("auth cookie must be HttpOnly")
	}
}

func TestAuthHandler_Signup_Validation(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		name       string
		req        dto.SignupRequest
		wantStatus int
	}{
		{
			name:       "bad email",
			req:        dto.SignupRequest{Email: "not-an-email", Password: "secret123", Nickname: "x"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "short password",
			req:        dto.SignupRequest{Email: "a@example.com", Password: "abc", Nickname: "x"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing nickname",
			req:        dto.SignupRequest{Email: "a@example.com", Password: "secret123"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "password mismatch",
			req: dto.SignupRequest{
				Email: "a@example.com", Password: "secret123",
				ConfirmPassword: "secret124", Nickname: "x",
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", tt.req)
			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAuthHandler_Signup_DuplicateEmail(t *testing.T) {
	app := newTestApp()
	signup(t, app, "chen@example.com", "secret123", "Chen")

	rec := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", dto.SignupRequest{
		Email:    "Chen@Example.com",
		Password: "other-secret",
		Nickname: "Other",
	})

	if rec.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthHandler_Login(t *testing.T) {
	app := newTestApp()
	user, _ := signup(t, app, "chen@example.com", "secret123", "Chen")

	rec := doJSON(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Email:    "chen@example.com",
		Password: "secret123",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var data dto.AuthData
	decodeEnvelope(t, rec, &data)
	if data.User.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, data.User.ID)
	}
	if data.Token == "" {
		t.Error("expected a token")
	}
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	app := newTestApp()
	signup(t, app, "chen@example.com", "secret123", "Chen")

	rec := doJSON(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Email:    "chen@example.com",
		Password: "wrong-password",
	})

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec, nil)
	if !strings.Contains(env.Error, "Invalid email or password") {
		t.Errorf("unexpected error message: %s", env.Error)
	}
}

func TestAuthHandler_Login_UnknownEmail(t *testing.T) {
	app := newTestApp()

	rec := doJSON(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Email:    "ghost@example.com",
		Password: "secret123",
	})

	// Same status and message as a wrong password, no account probing.
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	app := newTestApp()
	user, tok := signup(t, app, "chen@example.com", "secret123", "Chen")

	rec := doJSON(t, app, http.MethodGet, "/api/auth/me", tok, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var data dto.UserResponse
	decodeEnvelope(t, rec, &data)
	if data.ID != user.ID || data.Email != "chen@example.com" {
		t.Errorf("unexpected identity: %+v", data)
	}
}

func TestAuthHandler_Me_CookieToken(t *testing.T) {
	app := newTestApp()
	_, tok := signup(t, app, "chen@example.com", "secret123", "Chen")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: tok})
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200 via cookie auth, got %d", rec.Code)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	app := newTestApp()

	rec := doJSON(t, app, http.MethodGet, "/api/auth/me", "", nil)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	app := newTestApp()
	_, tok := signup(t, app, "chen@example.com", "secret123", "Chen")

	rec := doJSON(t, app, http.MethodPost, "/api/auth/logout", tok, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.AuthCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected the auth cookie to be expired")
	}
}
