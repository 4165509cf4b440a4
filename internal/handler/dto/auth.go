// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import "github.com/chukanavi/chukanavi/internal/model"

// SignupRequest represents the request body for creating an account.
type SignupRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password,omitempty"`
	Nickname        string `json:"nickname"`
}

// LoginRequest represents the request body for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse represents a user in API responses.
// The password hash never leaves the server.
type UserResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// AuthData is the payload returned by signup and login.
type AuthData struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		Nickname: user.Nickname,
	}
}

// IdentityToUserResponse converts a verified identity to UserResponse DTO.
func IdentityToUserResponse(id *model.Identity) UserResponse {
	return UserResponse{
		ID:       id.UserID,
		Email:    id.Email,
		Nickname: id.Nickname,
	}
}
