package persistence

import (
	"errors"

	"github.com/gestion/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps GORM errors (already normalised by TranslateError) to
// domain errors. Other errors are returned unchanged.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.ErrProtected
	default:
		return err
	}
}

// likePattern wraps a search term for a case-insensitive LIKE match
func likePattern(search string) string {
	return "%" + search + "%"
}
