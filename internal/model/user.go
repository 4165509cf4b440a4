// Package model defines domain entities for the application.
package model

import "time"

// User is the identity anchor for the directory.
// Created on signup; read on login and session checks. Users are never
// updated or deleted through the API.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Nickname     string    `json:"nickname"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the verified caller identity injected into request contexts
// by the auth middleware. UserID has been re-checked against the users
// table; decoded token claims alone are never trusted.
type Identity struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}
