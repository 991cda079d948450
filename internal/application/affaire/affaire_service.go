package affaire

import (
	"context"
	"errors"
	"fmt"

	appshared "github.com/gestion/backend/internal/application/shared"
	"github.com/gestion/backend/internal/domain/affaire"
	"github.com/gestion/backend/internal/domain/partner"
	"github.com/gestion/backend/internal/domain/shared"
	"github.com/gestion/backend/internal/infrastructure/logger"
	"github.com/gestion/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AffaireService handles affaire-related business operations
type AffaireService struct {
	repos appshared.TransactionalRepositories
	tx    appshared.TransactionScope
}

// NewAffaireService creates a new AffaireService
func NewAffaireService(repos appshared.TransactionalRepositories, tx appshared.TransactionScope) *AffaireService {
	return &AffaireService{repos: repos, tx: tx}
}

// List returns affaires with their invoicing progress
func (s *AffaireService) List(ctx context.Context, f AffaireListFilter) ([]AffaireResponse, error) {
	filter := shared.DefaultFilter()
	filter.Search = f.Search
	filter.OrderBy = f.OrderBy
	filter.OrderDir = f.OrderDir
	if f.ClientID != nil {
		filter = filter.With("client_id", *f.ClientID)
	}
	if f.AuthorID != nil {
		filter = filter.With("author_id", *f.AuthorID)
	}

	affaires, err := s.repos.Affaires().FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, s.repos, affaires)
}

// ListByClient returns the affaires of a client
func (s *AffaireService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]AffaireResponse, error) {
	if _, err := s.repos.Clients().FindByID(ctx, clientID); err != nil {
		return nil, err
	}
	return s.List(ctx, AffaireListFilter{ClientID: &clientID})
}

// GetByID returns an affaire with its invoicing progress
func (s *AffaireService) GetByID(ctx context.Context, id uuid.UUID) (*AffaireResponse, error) {
	a, err := s.repos.Affaires().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, s.repos, a)
}

// Create creates a new affaire
func (s *AffaireService) Create(ctx context.Context, req AffaireRequest) (*AffaireResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "affaire", "create")
	defer span.End()

	var resp *AffaireResponse
	err := s.tx.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		a, err := affaire.NewAffaire(req.AffaireNumber, req.AffaireDescription, req.Budget)
		if err != nil {
			return err
		}
		if err := ensureNumberAvailable(ctx, repos, a.AffaireNumber, uuid.Nil); err != nil {
			return err
		}
		if err := applyReferences(ctx, repos, a, req); err != nil {
			return err
		}
		if err := repos.Affaires().Save(ctx, a); err != nil {
			return err
		}
		resp, err = s.toResponse(ctx, repos, a)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.L(ctx).Info("affaire created",
		zap.String("affaire_id", resp.ID.String()),
		zap.String("affaire_number", resp.AffaireNumber))
	return resp, nil
}

// Update replaces the editable fields of an affaire. Changing the client
// refreshes the client name snapshot.
func (s *AffaireService) Update(ctx context.Context, id uuid.UUID, req AffaireRequest) (*AffaireResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "affaire", "update", telemetry.SpanAttrAffaireID, id.String())
	defer span.End()

	var resp *AffaireResponse
	err := s.tx.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		a, err := repos.Affaires().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := a.Update(req.AffaireNumber, req.AffaireDescription, req.Budget); err != nil {
			return err
		}
		if err := ensureNumberAvailable(ctx, repos, a.AffaireNumber, a.ID); err != nil {
			return err
		}
		if err := applyReferences(ctx, repos, a, req); err != nil {
			return err
		}
		if err := repos.Affaires().Save(ctx, a); err != nil {
			return err
		}
		resp, err = s.toResponse(ctx, repos, a)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return resp, nil
}

// Delete removes an affaire without invoices. Its contacts are kept
// unattached.
func (s *AffaireService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "affaire", "delete", telemetry.SpanAttrAffaireID, id.String())
	defer span.End()

	err := s.tx.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		a, err := repos.Affaires().FindByID(ctx, id)
		if err != nil {
			return err
		}
		invoices, err := repos.Invoices().CountByAffaire(ctx, id)
		if err != nil {
			return err
		}
		if invoices > 0 {
			return shared.NewDomainError("PROTECTED",
				fmt.Sprintf("Affaire %s has %d invoice(s) and cannot be deleted", a.AffaireNumber, invoices))
		}
		if err := repos.Contacts().DetachAffaire(ctx, id); err != nil {
			return err
		}
		return repos.Affaires().Delete(ctx, id)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	logger.L(ctx).Info("affaire deleted", zap.String("affaire_id", id.String()))
	return nil
}

func ensureNumberAvailable(ctx context.Context, repos appshared.TransactionalRepositories, number string, self uuid.UUID) error {
	existing, err := repos.Affaires().FindByNumber(ctx, number)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != self {
		return shared.NewDomainError("ALREADY_EXISTS", "Affaire number already exists: "+number)
	}
	return nil
}

// applyReferences resolves the client and author of a request onto the affaire
func applyReferences(ctx context.Context, repos appshared.TransactionalRepositories, a *affaire.Affaire, req AffaireRequest) error {
	if err := appshared.ValidateAuthor(ctx, repos.Users(), req.AuthorID); err != nil {
		return err
	}
	a.SetAuthor(req.AuthorID)

	if req.ClientID == nil {
		if a.ClientID != nil {
			a.AssignClient(nil)
		}
		return nil
	}
	client, err := repos.Clients().FindByID(ctx, *req.ClientID)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewDomainError("INVALID_CLIENT", "Client does not exist")
	}
	if err != nil {
		return err
	}
	a.AssignClient(client)
	return nil
}

func (s *AffaireService) toResponse(ctx context.Context, repos appshared.TransactionalRepositories, a *affaire.Affaire) (*AffaireResponse, error) {
	responses, err := s.toResponses(ctx, repos, []affaire.Affaire{*a})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

func (s *AffaireService) toResponses(ctx context.Context, repos appshared.TransactionalRepositories, affaires []affaire.Affaire) ([]AffaireResponse, error) {
	if len(affaires) == 0 {
		return []AffaireResponse{}, nil
	}

	ids := make([]uuid.UUID, len(affaires))
	clientIDs := make([]uuid.UUID, 0, len(affaires))
	for i, a := range affaires {
		ids[i] = a.ID
		if a.ClientID != nil {
			clientIDs = append(clientIDs, *a.ClientID)
		}
	}

	invoices, err := repos.Invoices().FindByAffaires(ctx, ids)
	if err != nil {
		return nil, err
	}
	amounts := make(map[uuid.UUID][]decimal.Decimal)
	for _, inv := range invoices {
		amounts[inv.AffaireID] = append(amounts[inv.AffaireID], inv.AmountHT)
	}

	contacts, err := repos.Contacts().FindByAffaires(ctx, ids)
	if err != nil {
		return nil, err
	}
	principals := make(map[uuid.UUID]*affaire.Contact)
	for i := range contacts {
		if contacts[i].IsPrincipal && contacts[i].AffaireID != nil {
			principals[*contacts[i].AffaireID] = &contacts[i]
		}
	}

	clients, err := repos.Clients().FindByIDs(ctx, clientIDs)
	if err != nil {
		return nil, err
	}
	live := make(map[uuid.UUID]*partner.Client, len(clients))
	for i := range clients {
		live[clients[i].ID] = &clients[i]
	}

	responses := make([]AffaireResponse, len(affaires))
	for i := range affaires {
		a := &affaires[i]
		var client *partner.Client
		if a.ClientID != nil {
			client = live[*a.ClientID]
		}
		responses[i] = ToAffaireResponse(a, client, amounts[a.ID], principals[a.ID])
	}
	return responses, nil
}
