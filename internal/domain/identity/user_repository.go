package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by login email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll returns users ordered by last and first name
	FindAll(ctx context.Context, filter UserFilter) ([]User, error)

	// ExistsByEmail checks if an email is already taken
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// Delete deletes a user by ID
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserFilter contains filter options for querying users
type UserFilter struct {
	// Search keyword for email or names
	Keyword string

	// AuthorsOnly keeps active users flagged as authors
	AuthorsOnly bool
}
