package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	tests := []struct {
		name           string
		allowedOrigins []string
		requestOrigin  string
		method         string
		path           string
		wantStatus     int
		wantHeader     string
	}{
		{
			name:           "no origins configured blocks all",
			allowedOrigins: []string{},
			requestOrigin:  "https://chukanavi.example",
			method:         http.MethodGet,
			path:           "/api/restaurants",
			wantStatus:     http.StatusOK,
			wantHeader:     "", // No CORS header
		},
		{
			name:           "allowed origin gets header",
			allowedOrigins: []string{"https://chukanavi.example"},
			requestOrigin:  "https://chukanavi.example",
			method:         http.MethodGet,
			path:           "/api/restaurants",
			wantStatus:     http.StatusOK,
			wantHeader:     "https://chukanavi.example",
		},
		{
			name:           "disallowed origin blocked on preflight",
			allowedOrigins: []string{"https://chukanavi.example"},
			requestOrigin:  "https://evil.example",
			method:         http.MethodOptions,
			path:           "/api/auth/login",
			wantStatus:     http.StatusForbidden,
			wantHeader:     "",
		},
		{
			name:           "preflight returns no content",
			allowedOrigins: []string{"https://chukanavi.example"},
			requestOrigin:  "https://chukanavi.example",
			method:         http.MethodOptions,
			path:           "/api/auth/login",
			wantStatus:     http.StatusNoContent,
			wantHeader:     "https://chukanavi.example",
		},
		{
			name:           "case insensitive origin match",
			allowedOrigins: []string{"HTTPS://CHUKANAVI.EXAMPLE"},
			requestOrigin:  "https://chukanavi.example",
			method:         http.MethodGet,
			path:           "/api/restaurants/search",
			wantStatus:     http.StatusOK,
			wantHeader:     "https://chukanavi.example",
		},
		{
			name:           "wildcard subdomain match",
			allowedOrigins: []string{"*.chukanavi.example"},
			requestOrigin:  "https://app.chukanavi.example",
			method:         http.MethodGet,
			path:           "/api/restaurants",
			wantStatus:     http.StatusOK,
			wantHeader:     "https://app.chukanavi.example",
		},
		{
			name:           "no origin header skips CORS",
			allowedOrigins: []string{"https://chukanavi.example"},
			requestOrigin:  "",
			method:         http.MethodGet,
			path:           "/api/restaurants",
			wantStatus:     http.StatusOK,
			wantHeader:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultCORSConfig()
			cfg.AllowedOrigins = tt.allowedOrigins

			handler := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.requestOrigin != "" {
				req.Header.Set("Origin", tt.requestOrigin)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			got := rec.Header().Get("Access-Control-Allow-Origin")
			if got != tt.wantHeader {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantHeader)
			}
		})
	}
}

func TestCORSPreflightHeaders(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"https://chukanavi.example"}

	handler := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/restaurants", nil)
	req.Header.Set("Origin", "https://chukanavi.example")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	// Check preflight headers are set
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Error("Access-Control-Allow-Methods not set on preflight")
	}

	if got := rec.Header().Get("Access-Control-Allow-Headers"); got == "" {
		t.Error("Access-Control-Allow-Headers not set on preflight")
	}

	if got := rec.Header().Get("Access-Control-Max-Age"); got == "" {
		t.Error("Access-Control-Max-Age not set on preflight")
	}
}

// The browser client sends the auth_token cookie cross-origin, so allowed
// origins must also get Access-Control-Allow-Credentials.
func TestCORSCredentialsForCookieAuth(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"https://chukanavi.example"}

	handler := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Origin", "https://chukanavi.example")
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "tok"})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Access-Control-Allow-Credentials = %q, want %q", got, "true")
	}
}
