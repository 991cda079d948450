package partner

import (
	"context"
	"fmt"

	appshared "github.com/gestion/backend/internal/application/shared"
	"github.com/gestion/backend/internal/domain/affaire"
	"github.com/gestion/backend/internal/domain/partner"
	"github.com/gestion/backend/internal/domain/shared"
	"github.com/gestion/backend/internal/infrastructure/logger"
	"github.com/gestion/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientService handles client-related business operations
type ClientService struct {
	repos appshared.TransactionalRepositories
	tx    appshared.TransactionScope
}

// NewClientService creates a new ClientService
func NewClientService(repos appshared.TransactionalRepositories, tx appshared.TransactionScope) *ClientService {
	return &ClientService{repos: repos, tx: tx}
}

// List returns clients ordered by name with their derived figures
func (s *ClientService) List(ctx context.Context, f ClientListFilter) ([]ClientResponse, error) {
	filter := shared.DefaultFilter()
	filter.Search = f.Search
	filter.OrderBy = f.OrderBy
	filter.OrderDir = f.OrderDir

	clients, err := s.repos.Clients().FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	allAffaires, err := s.repos.Affaires().FindAll(ctx, shared.Filter{OrderBy: "created_at", OrderDir: "asc"})
	if err != nil {
		return nil, err
	}

	byClient := make(map[uuid.UUID][]affaire.Affaire)
	earliest := make([]uuid.UUID, 0)
	for _, a := range allAffaires {
		if a.ClientID == nil {
			continue
		}
		if len(byClient[*a.ClientID]) == 0 {
			earliest = append(earliest, a.ID)
		}
		byClient[*a.ClientID] = append(byClient[*a.ClientID], a)
	}

	contacts, err := s.repos.Contacts().FindByAffaires(ctx, earliest)
	if err != nil {
		return nil, err
	}
	principalByAffaire := make(map[uuid.UUID]*affaire.Contact)
	for i := range contacts {
		if contacts[i].IsPrincipal && contacts[i].AffaireID != nil {
			principalByAffaire[*contacts[i].AffaireID] = &contacts[i]
		}
	}

	responses := make([]ClientResponse, len(clients))
	for i := range clients {
		affaires := byClient[clients[i].ID]
		var principal *affaire.Contact
		if len(affaires) > 0 {
			principal = principalByAffaire[affaires[0].ID]
		}
		responses[i] = ToClientResponse(&clients[i], affaires, principal)
	}
	return responses, nil
}

// GetByID returns a client with its derived figures
func (s *ClientService) GetByID(ctx context.Context, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.repos.Clients().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(ctx, s.repos, client)
}

// Create creates a new client
func (s *ClientService) Create(ctx context.Context, req ClientRequest) (*ClientResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "client", "create")
	defer span.End()

	client, err := partner.NewClient(req.EntityName)
	if err != nil {
		return nil, err
	}
	if err := applyClientRequest(client, req); err != nil {
		return nil, err
	}
	if err := s.repos.Clients().Save(ctx, client); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.L(ctx).Info("client created",
		zap.String("client_id", client.ID.String()),
		zap.String("entity_name", client.EntityName))

	resp := ToClientResponse(client, nil, nil)
	return &resp, nil
}

// Update replaces the editable fields of a client
func (s *ClientService) Update(ctx context.Context, id uuid.UUID, req ClientRequest) (*ClientResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "client", "update", telemetry.SpanAttrClientID, id.String())
	defer span.End()

	var resp *ClientResponse
	err := s.tx.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		client, err := repos.Clients().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := client.Rename(req.EntityName); err != nil {
			return err
		}
		if err := applyClientRequest(client, req); err != nil {
			return err
		}
		if err := repos.Clients().Save(ctx, client); err != nil {
			return err
		}
		resp, err = s.buildResponse(ctx, repos, client)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return resp, nil
}

// Delete removes a client. It is refused while any invoice references the
// client directly or through one of its affaires; otherwise its affaires are
// kept without client and keep their snapshot name.
func (s *ClientService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "client", "delete", telemetry.SpanAttrClientID, id.String())
	defer span.End()

	err := s.tx.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		client, err := repos.Clients().FindByID(ctx, id)
		if err != nil {
			return err
		}

		invoices, err := repos.Invoices().CountByClient(ctx, id)
		if err != nil {
			return err
		}
		if invoices > 0 {
			return shared.NewDomainError("PROTECTED",
				fmt.Sprintf("Client %q is referenced by %d invoice(s) and cannot be deleted", client.EntityName, invoices))
		}

		if err := repos.Affaires().DetachClient(ctx, id); err != nil {
			return err
		}
		return repos.Clients().Delete(ctx, id)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	logger.L(ctx).Info("client deleted", zap.String("client_id", id.String()))
	return nil
}

func (s *ClientService) buildResponse(ctx context.Context, repos appshared.TransactionalRepositories, client *partner.Client) (*ClientResponse, error) {
	affaires, err := repos.Affaires().FindByClient(ctx, client.ID)
	if err != nil {
		return nil, err
	}

	var principal *affaire.Contact
	if len(affaires) > 0 {
		contacts, err := repos.Contacts().FindByAffaire(ctx, affaires[0].ID)
		if err != nil {
			return nil, err
		}
		principal = affaire.Principal(contacts)
	}

	resp := ToClientResponse(client, affaires, principal)
	return &resp, nil
}

func applyClientRequest(client *partner.Client, req ClientRequest) error {
	if err := client.SetAddress(req.Address, req.ZipCode, req.City); err != nil {
		return err
	}
	return client.SetContactInfo(req.Contact, req.PhoneNumber, req.Email)
}
