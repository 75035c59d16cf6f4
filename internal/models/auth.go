package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest looks a user up by email and role. The password is accepted but never checked.
type LoginRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password"`
	Role     UserRole `json:"role" validate:"required,oneof=student trainer"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Name     string   `json:"name" validate:"required"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password"`
	Role     UserRole `json:"role" validate:"required,oneof=student trainer"`
}

// Session is returned by login and registration.
type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	User        User      `json:"user"`
}

// JWTClaims represents the session token payload.
type JWTClaims struct {
	UserID string   `json:"uid"`
	Role   UserRole `json:"role"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	jwt.RegisteredClaims
}
