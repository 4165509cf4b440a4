package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/chukanavi/chukanavi/internal/auth"
	"github.com/chukanavi/chukanavi/internal/handler/dto"
	"github.com/chukanavi/chukanavi/internal/middleware"
	"github.com/chukanavi/chukanavi/internal/service"
	"github.com/chukanavi/chukanavi/internal/token"
)

// IdentityEvictor removes a cached identity on logout.
// Satisfied by *cache.Cache. May be nil when caching is disabled.
type IdentityEvictor interface {
	DeleteIdentity(ctx context.Context, cacheKey string) error
}

// AuthHandler handles HTTP requests for signup, login and logout.
type AuthHandler struct {
	svc    *service.AuthService
	cache  IdentityEvictor
	logger *slog.Logger
	secure bool
}

// NewAuthHandler creates a new AuthHandler. cache may be nil; secure
// controls the Secure attribute on the auth cookie.
func NewAuthHandler(svc *service.AuthService, cache IdentityEvictor, logger *slog.Logger, secure bool) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		cache:  cache,
		logger: logger,
		secure: secure,
	}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
		writeError(w, http.StatusBadRequest, "Passwords do not match")
		return
	}

	user, tok, err := h.svc.Signup(r.Context(), service.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Nickname: req.Nickname,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_signed_up", slog.String("user_id", user.ID))

	h.setAuthCookie(w, tok)
	writeSuccess(w, http.StatusCreated, dto.AuthData{
		User:  dto.ToUserResponse(user),
		Token: tok,
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, tok, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_logged_in", slog.String("user_id", user.ID))

	h.setAuthCookie(w, tok)
	writeSuccess(w, http.StatusOK, dto.AuthData{
		User:  dto.ToUserResponse(user),
		Token: tok,
	})
}

// Logout handles POST /api/auth/logout. Tokens are not server-side
// sessions, so logout clears the cookie and evicts the cached identity.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if tok := middleware.ExtractToken(r); tok != "" && h.cache != nil {
		if err := h.cache.DeleteIdentity(r.Context(), auth.QuickHash(tok)); err != nil {
			h.logger.Warn("identity cache eviction failed", slog.String("error", err.Error()))
		}
	}

	h.clearAuthCookie(w)
	writeMessage(w, http.StatusOK, "Logged out")
}

// Me handles GET /api/auth/me. Requires authentication; the identity
// was resolved by the middleware.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id := token.IdentityFromContext(r.Context())
	if id == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	writeSuccess(w, http.StatusOK, dto.IdentityToUserResponse(id))
}

func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, tok string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// handleServiceError maps auth service errors to HTTP responses.
func (h *AuthHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmailExists):
		writeError(w, http.StatusConflict, "Email already registered")
	case errors.Is(err, service.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "Invalid email format")
	case errors.Is(err, service.ErrPasswordTooShort):
		writeError(w, http.StatusBadRequest, "Password must be at least 6 characters")
	case errors.Is(err, service.ErrNicknameRequired):
		writeError(w, http.StatusBadRequest, "Nickname is required")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	default:
		h.logger.Error("auth request failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
