// Package models holds the persisted entities and their client-facing
// projections.
package models

import "time"

// User is a stored account. PasswordHash never leaves the server.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
}

// PublicUser is the part of a User that may be returned to clients.
type PublicUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// UserStats aggregates the user table for the dashboard.
type UserStats struct {
	Total  int64 `json:"total_users"`
	Active int64 `json:"active_users"`
}
