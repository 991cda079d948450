package partner

import (
	"context"

	"github.com/gestion/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientRepository defines persistence operations for clients
type ClientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	// FindByEntityName matches the name exactly
	FindByEntityName(ctx context.Context, name string) (*Client, error)
	// FindAll returns clients ordered by entity name; filter.Search matches the name
	FindAll(ctx context.Context, filter shared.Filter) ([]Client, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Client, error)
	Save(ctx context.Context, client *Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
