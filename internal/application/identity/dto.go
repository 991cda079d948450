package identity

import (
	"time"

	"github.com/gestion/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// CreateUserRequest is the payload for creating a user
type CreateUserRequest struct {
	Email           string `json:"email" binding:"required,email,max=254"`
	FirstName       string `json:"first_name" binding:"max=150"`
	LastName        string `json:"last_name" binding:"max=150"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	IsActive        *bool  `json:"is_active"`
	IsStaff         bool   `json:"is_staff"`
	IsAuthor        bool   `json:"is_author"`
}

// UpdateUserRequest is the payload for updating a user. The password is
// changed only when given.
type UpdateUserRequest struct {
	Email           string `json:"email" binding:"required,email,max=254"`
	FirstName       string `json:"first_name" binding:"max=150"`
	LastName        string `json:"last_name" binding:"max=150"`
	Password        string `json:"password" binding:"omitempty,min=6"`
	ConfirmPassword string `json:"confirm_password"`
	IsActive        bool   `json:"is_active"`
	IsStaff         bool   `json:"is_staff"`
	IsAuthor        bool   `json:"is_author"`
}

// UserListFilter represents filter options for the user list
type UserListFilter struct {
	Search string `form:"search"`
	Author bool   `form:"author"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DisplayName string    `json:"display_name"`
	IsActive    bool      `json:"is_active"`
	IsStaff     bool      `json:"is_staff"`
	IsAuthor    bool      `json:"is_author"`
	DateJoined  time.Time `json:"date_joined"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToUserResponse converts a domain user; the password hash never leaves
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		DisplayName: u.DisplayName(),
		IsActive:    u.IsActive,
		IsStaff:     u.IsStaff,
		IsAuthor:    u.IsAuthor,
		DateJoined:  u.DateJoined,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
