package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/chukanavi/chukanavi/internal/model"
	"github.com/chukanavi/chukanavi/internal/repository"
	"github.com/chukanavi/chukanavi/internal/token"
)

// Guard errors.
var (
	// ErrUnauthorized indicates a missing or unresolvable token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates a valid identity that does not own the resource.
	ErrForbidden = errors.New("forbidden")
)

// UserSource resolves user rows for identity verification.
type UserSource interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// Guard is the single ownership-authorization check used by every
// mutating endpoint. Token claims are always re-verified against the
// user store; the endpoints never trust client-supplied claims alone.
type Guard struct {
	users UserSource
}

// NewGuard creates a Guard backed by the given user source.
func NewGuard(users UserSource) *Guard {
	return &Guard{users: users}
}

// ResolveToken decodes a bearer token and re-verifies the user exists.
// Returns ErrUnauthorized for a malformed token or a userId with no row.
func (g *Guard) ResolveToken(ctx context.Context, tok string) (*model.Identity, error) {
	claims, err := token.Decode(tok)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := g.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("resolve token identity: %w", err)
	}

	return &model.Identity{
		UserID:   user.ID,
		Email:    user.Email,
		Nickname: user.Nickname,
	}, nil
}

// Require authorizes the caller in ctx against a resource owner.
// Returns ErrUnauthorized when no verified identity is present and
// ErrForbidden when the identity does not match the owner. Callers
// proceed to mutate only on a nil return.
func (g *Guard) Require(ctx context.Context, ownerID string) error {
	id := token.IdentityFromContext(ctx)
	if id == nil {
		return ErrUnauthorized
	}
	if id.UserID != ownerID {
		return ErrForbidden
	}
	return nil
}
