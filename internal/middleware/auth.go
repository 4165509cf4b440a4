package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/chukanavi/chukanavi/internal/auth"
	"github.com/chukanavi/chukanavi/internal/metrics"
	"github.com/chukanavi/chukanavi/internal/model"
	"github.com/chukanavi/chukanavi/internal/token"
)

// AuthCookieName is the cookie mirroring the bearer token.
const AuthCookieName = "auth_token"

// IdentityCache caches verified identities keyed by a token hash.
// Satisfied by *cache.Cache. May be nil to disable caching.
type IdentityCache interface {
	GetIdentity(ctx context.Context, cacheKey string) (*model.Identity, error)
	SetIdentity(ctx context.Context, cacheKey string, id *model.Identity) error
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger  *slog.Logger
	Guard   *auth.Guard
	Cache   IdentityCache
	Metrics metrics.Recorder
}

// RequireAuth returns a middleware that authenticates requests.
// It extracts the token from the Authorization header or the auth_token
// cookie, re-verifies the user row behind it, and injects the verified
// identity into the request context. Unauthenticated requests get 401.
func RequireAuth(cfg AuthConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := ExtractToken(r)
			if tok == "" {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			// Check cache first; the key is a hash, the raw token is
			// never stored.
			cacheKey := auth.QuickHash(tok)
			if cfg.Cache != nil {
				if id, _ := cfg.Cache.GetIdentity(r.Context(), cacheKey); id != nil {
					recorder.IncIdentityCacheHit()
					ctx := token.ContextWithIdentity(r.Context(), id)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
				recorder.IncIdentityCacheMiss()
			}

			id, err := cfg.Guard.ResolveToken(r.Context(), tok)
			if err != nil {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "invalid_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			if cfg.Cache != nil {
				_ = cfg.Cache.SetIdentity(r.Context(), cacheKey, id)
			}

			cfg.Logger.Debug("authentication successful",
				slog.String("user_id", id.UserID),
				slog.String("endpoint", r.Method+" "+r.URL.Path),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			ctx := token.ContextWithIdentity(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractToken extracts the auth token from the request.
// Supports "Authorization: Bearer <token>" and the auth_token cookie.
func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	if c, err := r.Cookie(AuthCookieName); err == nil {
		return c.Value
	}
	return ""
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"success":false,"error":"Authentication required"}`))
}
