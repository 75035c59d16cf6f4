package models

import "time"

// UserRole represents the two marketplace personas.
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTrainer UserRole = "trainer"
)

// Valid reports whether the role is one the marketplace understands.
func (r UserRole) Valid() bool {
	return r == RoleStudent || r == RoleTrainer
}

// User represents a registered marketplace account stored in the users collection.
type User struct {
	ID         string    `json:"id" validate:"required"`
	Name       string    `json:"name" validate:"required"`
	Email      string    `json:"email" validate:"required,email"`
	Role       UserRole  `json:"role" validate:"required,oneof=student trainer"`
	Avatar     string    `json:"avatar,omitempty"`
	JoinedDate time.Time `json:"joinedDate"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
