package affaire

import (
	"context"

	"github.com/gestion/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AffaireRepository defines persistence operations for affaires
type AffaireRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Affaire, error)
	FindByNumber(ctx context.Context, number string) (*Affaire, error)
	// FindAll returns affaires ordered by number; filter.Filters accepts client_id
	FindAll(ctx context.Context, filter shared.Filter) ([]Affaire, error)
	FindByClient(ctx context.Context, clientID uuid.UUID) ([]Affaire, error)
	Save(ctx context.Context, affaire *Affaire) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)

	// DetachClient sets client_id to NULL on every affaire of the client
	DetachClient(ctx context.Context, clientID uuid.UUID) error
}

// ContactRepository defines persistence operations for contacts
type ContactRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Contact, error)
	// FindByAffaire returns the contacts ordered by creation time
	FindByAffaire(ctx context.Context, affaireID uuid.UUID) ([]Contact, error)
	FindByAffaires(ctx context.Context, affaireIDs []uuid.UUID) ([]Contact, error)
	// FindOrphans returns contacts whose affaire was deleted
	FindOrphans(ctx context.Context) ([]Contact, error)
	Save(ctx context.Context, contact *Contact) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ClearPrincipal un-marks every principal contact of the affaire except keepID
	ClearPrincipal(ctx context.Context, affaireID, keepID uuid.UUID) error
	// DetachAffaire sets affaire_id to NULL on every contact of the affaire
	// and un-marks them as principal
	DetachAffaire(ctx context.Context, affaireID uuid.UUID) error
}
