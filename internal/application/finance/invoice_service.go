package finance

import (
	"context"
	"errors"
	"fmt"

	appshared "github.com/gestion/backend/internal/application/shared"
	"github.com/gestion/backend/internal/domain/affaire"
	"github.com/gestion/backend/internal/domain/finance"
	"github.com/gestion/backend/internal/domain/partner"
	"github.com/gestion/backend/internal/domain/shared"
	"github.com/gestion/backend/internal/infrastructure/logger"
	"github.com/gestion/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceService handles invoice-related business operations
type InvoiceService struct {
	repos appshared.TransactionalRepositories
	tx    appshared.TransactionScope
	clock shared.Clock
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(repos appshared.TransactionalRepositories, tx appshared.TransactionScope, clock shared.Clock) *InvoiceService {
	return &InvoiceService{repos: repos, tx: tx, clock: clock}
}

// List returns invoices matching the filter, most recent first
func (s *InvoiceService) List(ctx context.Context, f InvoiceListFilter) ([]InvoiceResponse, error) {
	filter := finance.InvoiceFilter{
		Status:    finance.InvoiceStatus(f.Statut),
		AffaireID: f.AffaireID,
		ClientID:  f.ClientID,
		Search:    f.Search,
	}
	var err error
	if filter.DateDebut, err = appshared.ParseOptionalDate(f.DateDebut); err != nil {
		return nil, err
	}
	if filter.DateFin, err = appshared.ParseOptionalDate(f.DateFin); err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown invoice status: "+f.Statut)
	}

	invoices, err := s.repos.Invoices().FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, s.repos, invoices, false)
}

// ListByAffaire returns the invoices of an affaire
func (s *InvoiceService) ListByAffaire(ctx context.Context, affaireID uuid.UUID) ([]InvoiceResponse, error) {
	if _, err := s.repos.Affaires().FindByID(ctx, affaireID); err != nil {
		return nil, err
	}
	invoices, err := s.repos.Invoices().FindByAffaire(ctx, affaireID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, s.repos, invoices, false)
}

// GetByID returns an invoice with its payments
func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.repos.Invoices().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, s.repos, inv)
}

// Create creates an invoice under an affaire. Snapshots of the affaire
// number and client name are taken and the status is derived for today.
func (s *InvoiceService) Create(ctx context.Context, req InvoiceRequest) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "create",
		telemetry.SpanAttrInvoiceNumber, req.InvoiceNumber,
		telemetry.SpanAttrAffaireID, req.AffaireID.String())
	defer span.End()

	details, err := req.details()
	if err != nil {
		return nil, err
	}

	var resp *InvoiceResponse
	err = s.tx.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		inv, err := finance.NewInvoice(req.AffaireID, details)
		if err != nil {
			return err
		}
		if err := ensureInvoiceNumberAvailable(ctx, repos, inv.InvoiceNumber, uuid.Nil); err != nil {
			return err
		}
		if err := applyInvoiceReferences(ctx, repos, inv, req); err != nil {
			return err
		}
		inv.RecomputeStatus(decimal.Zero, shared.Today(s.clock))

		if err := repos.Invoices().Save(ctx, inv); err != nil {
			return err
		}
		resp, err = s.toResponse(ctx, repos, inv)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.L(ctx).Info("invoice created",
		zap.String("invoice_id", resp.ID.String()),
		zap.String("invoice_number", resp.InvoiceNumber),
		zap.String("amount_ht", resp.AmountHT.String()),
		zap.String("statut", resp.Statut))
	return resp, nil
}

// Update replaces the editable fields of an invoice and recomputes its
// status, since amount and date drive it
func (s *InvoiceService) Update(ctx context.Context, id uuid.UUID, req InvoiceRequest) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "update", telemetry.SpanAttrInvoiceID, id.String())
	defer span.End()

	details, err := req.details()
	if err != nil {
		return nil, err
	}

	var resp *InvoiceResponse
	err = s.tx.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		inv, err := repos.Invoices().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req.Version != nil && *req.Version != inv.Version {
			return shared.ErrConcurrencyConflict
		}
		if err := inv.Update(details); err != nil {
			return err
		}
		if err := ensureInvoiceNumberAvailable(ctx, repos, inv.InvoiceNumber, inv.ID); err != nil {
			return err
		}
		if err := applyInvoiceReferences(ctx, repos, inv, req); err != nil {
			return err
		}
		if _, err := recomputeStatus(ctx, repos, inv, shared.Today(s.clock)); err != nil {
			return err
		}
		if err := repos.Invoices().SaveWithLock(ctx, inv); err != nil {
			return err
		}
		resp, err = s.toResponse(ctx, repos, inv)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return resp, nil
}

// Delete removes an invoice without payments
func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "delete", telemetry.SpanAttrInvoiceID, id.String())
	defer span.End()

	err := s.tx.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		inv, err := repos.Invoices().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		payments, err := repos.Payments().CountByInvoice(ctx, id)
		if err != nil {
			return err
		}
		if payments > 0 {
			return shared.NewDomainError("PROTECTED",
				fmt.Sprintf("Invoice %s has %d payment(s) and cannot be deleted", inv.InvoiceNumber, payments))
		}
		return repos.Invoices().Delete(ctx, id)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	logger.L(ctx).Info("invoice deleted", zap.String("invoice_id", id.String()))
	return nil
}

// Cancel moves an invoice to annulee. Its payments are kept.
func (s *InvoiceService) Cancel(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "cancel", telemetry.SpanAttrInvoiceID, id.String())
	defer span.End()

	var resp *InvoiceResponse
	err := s.tx.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		inv, err := repos.Invoices().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := inv.Cancel(); err != nil {
			return err
		}
		if err := repos.Invoices().SaveWithLock(ctx, inv); err != nil {
			return err
		}
		resp, err = s.toResponse(ctx, repos, inv)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.L(ctx).Info("invoice cancelled",
		zap.String("invoice_id", id.String()),
		zap.String("invoice_number", resp.InvoiceNumber))
	return resp, nil
}

// RefreshStatus recomputes the status of one invoice against today
func (s *InvoiceService) RefreshStatus(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "refresh_status", telemetry.SpanAttrInvoiceID, id.String())
	defer span.End()

	var resp *InvoiceResponse
	err := s.tx.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		inv, err := repos.Invoices().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if _, err := RefreshStatus(ctx, repos, inv, shared.Today(s.clock)); err != nil {
			return err
		}
		resp, err = s.toResponse(ctx, repos, inv)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrInvoiceStatus, resp.Statut)
	return resp, nil
}

func ensureInvoiceNumberAvailable(ctx context.Context, repos appshared.TransactionalRepositories, number string, self uuid.UUID) error {
	existing, err := repos.Invoices().FindByNumber(ctx, number)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != self {
		return shared.NewDomainError("ALREADY_EXISTS", "Invoice number already exists: "+number)
	}
	return nil
}

// applyInvoiceReferences resolves the affaire, client, author and contact of
// a request onto the invoice. Without an explicit client the affaire's client
// is used.
func applyInvoiceReferences(ctx context.Context, repos appshared.TransactionalRepositories, inv *finance.Invoice, req InvoiceRequest) error {
	a, err := repos.Affaires().FindByID(ctx, req.AffaireID)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewDomainError("INVALID_AFFAIRE", "Affaire does not exist")
	}
	if err != nil {
		return err
	}
	inv.SetAffaire(a.ID, a.AffaireNumber)

	clientID := req.ClientID
	if clientID == nil {
		clientID = a.ClientID
	}
	client, err := findClient(ctx, repos, clientID)
	if err != nil {
		return err
	}
	if client == nil && clientID == nil && inv.ClientEntityName == "" {
		inv.ClientEntityName = a.ClientEntityName
	}
	inv.SetClient(client)

	if err := appshared.ValidateAuthor(ctx, repos.Users(), req.AuthorID); err != nil {
		return err
	}
	inv.SetAuthor(req.AuthorID)

	if err := validateContact(ctx, repos, a, req.ContactID); err != nil {
		return err
	}
	inv.SetContact(req.ContactID)
	inv.Touch()
	return nil
}

func findClient(ctx context.Context, repos appshared.TransactionalRepositories, id *uuid.UUID) (*partner.Client, error) {
	if id == nil {
		return nil, nil
	}
	client, err := repos.Clients().FindByID(ctx, *id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client does not exist")
	}
	return client, err
}

func validateContact(ctx context.Context, repos appshared.TransactionalRepositories, a *affaire.Affaire, contactID *uuid.UUID) error {
	if contactID == nil {
		return nil
	}
	contact, err := repos.Contacts().FindByID(ctx, *contactID)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewDomainError("INVALID_CONTACT", "Contact does not exist")
	}
	if err != nil {
		return err
	}
	if contact.AffaireID == nil || *contact.AffaireID != a.ID {
		return shared.NewDomainError("INVALID_CONTACT", "Contact does not belong to affaire "+a.AffaireNumber)
	}
	return nil
}

func (s *InvoiceService) toResponse(ctx context.Context, repos appshared.TransactionalRepositories, inv *finance.Invoice) (*InvoiceResponse, error) {
	responses, err := s.toResponses(ctx, repos, []finance.Invoice{*inv}, true)
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

func (s *InvoiceService) toResponses(ctx context.Context, repos appshared.TransactionalRepositories, invoices []finance.Invoice, withPayments bool) ([]InvoiceResponse, error) {
	if len(invoices) == 0 {
		return []InvoiceResponse{}, nil
	}

	ids := make([]uuid.UUID, len(invoices))
	clientIDs := make([]uuid.UUID, 0, len(invoices))
	for i := range invoices {
		ids[i] = invoices[i].ID
		if invoices[i].ClientID != nil {
			clientIDs = append(clientIDs, *invoices[i].ClientID)
		}
	}

	payments, err := repos.Payments().FindByInvoices(ctx, ids)
	if err != nil {
		return nil, err
	}
	byInvoice := finance.GroupPaymentsByInvoice(payments)

	clients, err := repos.Clients().FindByIDs(ctx, clientIDs)
	if err != nil {
		return nil, err
	}
	live := make(map[uuid.UUID]*partner.Client, len(clients))
	for i := range clients {
		live[clients[i].ID] = &clients[i]
	}

	today := shared.Today(s.clock)
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		inv := &invoices[i]
		var client *partner.Client
		if inv.ClientID != nil {
			client = live[*inv.ClientID]
		}
		responses[i] = ToInvoiceResponse(inv, byInvoice[inv.ID], client, today)
		if withPayments {
			responses[i].Payments = ToPaymentResponses(byInvoice[inv.ID])
		}
	}
	return responses, nil
}
