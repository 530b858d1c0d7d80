package dto

import (
	"time"

	"github.com/samraify/multicore-crm-new/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	FullName   string        `json:"full_name"`
	Email      string        `json:"email"`
	Password   string        `json:"password"`
	BusinessID *string       `json:"business_id"`
	Roles      []domain.Role `json:"roles"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the issued token plus the account it belongs to.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse is the public account representation.
type UserResponse struct {
	ID         string            `json:"id"`
	BusinessID *string           `json:"business_id"`
	FullName   string            `json:"full_name"`
	Email      string            `json:"email"`
	Roles      []domain.Role     `json:"roles"`
	Status     domain.UserStatus `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
}
