// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chukanavi/chukanavi/internal/auth"
	"github.com/chukanavi/chukanavi/internal/metrics"
	"github.com/chukanavi/chukanavi/internal/model"
	"github.com/chukanavi/chukanavi/internal/repository"
	"github.com/chukanavi/chukanavi/internal/token"
)

// Auth service errors.
var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrNicknameRequired   = errors.New("nickname is required")
)

// Email validation regex: local@domain with at least one dot in the domain.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minPasswordLength = 6

// UserStore is the persistence surface AuthService depends on.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByEmailAndHash(ctx context.Context, email, passwordHash string) (*model.User, error)
}

// AuthService handles signup and login.
type AuthService struct {
	users   UserStore
	scheme  auth.Scheme
	metrics metrics.Recorder
}

// NewAuthService creates a new AuthService. The scheme selects how new
// passwords are hashed; verification accepts all known schemes.
func NewAuthService(users UserStore, scheme auth.Scheme, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		users:   users,
		scheme:  scheme,
		metrics: recorder,
	}
}

// SignupInput defines input for creating an account.
type SignupInput struct {
	Email    string
	Password string
	Nickname string
}

// Signup creates a user account and returns the user with an issued token.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*model.User, string, error) {
	email := normalizeEmail(input.Email)
	if !emailRegex.MatchString(email) {
		return nil, "", ErrInvalidEmail
	}
	if len(input.Password) < minPasswordLength {
		return nil, "", ErrPasswordTooShort
	}
	nickname := strings.TrimSpace(input.Nickname)
	if nickname == "" {
		return nil, "", ErrNicknameRequired
	}

	hash, err := auth.HashPassword(input.Password, s.scheme)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Nickname:     nickname,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, "", ErrEmailExists
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncSignup()

	return user, token.Encode(user.ID, user.Email), nil
}

// Login authenticates a user and returns the user with an issued token.
// Any miss reports ErrInvalidCredentials; whether the email exists is not
// leaked.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = normalizeEmail(email)

	// Fast path: exact (email, digest) match covers legacy rows without
	// loading the hash into the process.
	user, err := s.users.GetUserByEmailAndHash(ctx, email, auth.DigestPassword(password))
	if err == nil {
		s.metrics.IncLogin("success")
		return user, token.Encode(user.ID, user.Email), nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	// The row may hold an upgraded hash scheme.
	user, err = s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLogin("failure")
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		s.metrics.IncLogin("failure")
		return nil, "", ErrInvalidCredentials
	}

	s.metrics.IncLogin("success")
	return user, token.Encode(user.ID, user.Email), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
