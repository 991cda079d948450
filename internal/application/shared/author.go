package shared

import (
	"context"
	"errors"

	"github.com/gestion/backend/internal/domain/identity"
	"github.com/gestion/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ValidateAuthor checks that an optional author reference points to an
// active user flagged as author. A nil id is accepted.
func ValidateAuthor(ctx context.Context, users identity.UserRepository, authorID *uuid.UUID) error {
	if authorID == nil {
		return nil
	}
	user, err := users.FindByID(ctx, *authorID)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewDomainError("INVALID_AUTHOR", "Author does not exist")
	}
	if err != nil {
		return err
	}
	return user.CanAuthor()
}
