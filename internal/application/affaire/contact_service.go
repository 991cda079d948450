package affaire

import (
	"context"

	appshared "github.com/gestion/backend/internal/application/shared"
	"github.com/gestion/backend/internal/domain/affaire"
	"github.com/gestion/backend/internal/domain/shared"
	"github.com/gestion/backend/internal/infrastructure/logger"
	"github.com/gestion/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContactService maintains the contacts of affaires. Every write keeps
// exactly one principal contact on an affaire that has contacts.
type ContactService struct {
	repos appshared.TransactionalRepositories
	tx    appshared.TransactionScope
}

// NewContactService creates a new ContactService
func NewContactService(repos appshared.TransactionalRepositories, tx appshared.TransactionScope) *ContactService {
	return &ContactService{repos: repos, tx: tx}
}

// ListByAffaire returns the contacts of an affaire in creation order
func (s *ContactService) ListByAffaire(ctx context.Context, affaireID uuid.UUID) ([]ContactResponse, error) {
	if _, err := s.repos.Affaires().FindByID(ctx, affaireID); err != nil {
		return nil, err
	}
	contacts, err := s.repos.Contacts().FindByAffaire(ctx, affaireID)
	if err != nil {
		return nil, err
	}
	return ToContactResponses(contacts), nil
}

// ListByClient returns the contacts of every affaire of a client
func (s *ContactService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]ContactResponse, error) {
	if _, err := s.repos.Clients().FindByID(ctx, clientID); err != nil {
		return nil, err
	}
	affaires, err := s.repos.Affaires().FindByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(affaires))
	for i := range affaires {
		ids[i] = affaires[i].ID
	}
	contacts, err := s.repos.Contacts().FindByAffaires(ctx, ids)
	if err != nil {
		return nil, err
	}
	return ToContactResponses(contacts), nil
}

// GetByID returns a contact
func (s *ContactService) GetByID(ctx context.Context, id uuid.UUID) (*ContactResponse, error) {
	c, err := s.repos.Contacts().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToContactResponse(c)
	return &resp, nil
}

// CreateContact adds a contact to an affaire. The first contact of an
// affaire is always principal; a new principal un-marks the previous one.
func (s *ContactService) CreateContact(ctx context.Context, affaireID uuid.UUID, req ContactRequest) (*ContactResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "contact", "create", telemetry.SpanAttrAffaireID, affaireID.String())
	defer span.End()

	var contact *affaire.Contact
	err := s.tx.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		if _, err := repos.Affaires().FindByID(ctx, affaireID); err != nil {
			return err
		}
		existing, err := repos.Contacts().FindByAffaire(ctx, affaireID)
		if err != nil {
			return err
		}

		contact, err = affaire.NewContact(affaireID, req.details())
		if err != nil {
			return err
		}
		contact.MarkPrincipal(affaire.PrincipalForNew(existing, req.IsPrincipal))

		if contact.IsPrincipal && len(existing) > 0 {
			if err := repos.Contacts().ClearPrincipal(ctx, affaireID, contact.ID); err != nil {
				return err
			}
		}
		return repos.Contacts().Save(ctx, contact)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.L(ctx).Info("contact created",
		zap.String("contact_id", contact.ID.String()),
		zap.String("affaire_id", affaireID.String()),
		zap.Bool("is_principal", contact.IsPrincipal))

	resp := ToContactResponse(contact)
	return &resp, nil
}

// UpdateContact replaces the fields of a contact. Un-marking the only
// principal of an affaire is refused.
func (s *ContactService) UpdateContact(ctx context.Context, id uuid.UUID, req ContactRequest) (*ContactResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "contact", "update")
	defer span.End()

	var contact *affaire.Contact
	err := s.tx.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		contact, err = repos.Contacts().FindByID(ctx, id)
		if err != nil {
			return err
		}

		details := req.details()
		if contact.AffaireID == nil {
			// unattached contacts cannot be principal
			details.IsPrincipal = false
			if err := contact.Update(details); err != nil {
				return err
			}
			return repos.Contacts().Save(ctx, contact)
		}

		affaireID := *contact.AffaireID
		siblings, err := repos.Contacts().FindByAffaire(ctx, affaireID)
		if err != nil {
			return err
		}
		if contact.IsPrincipal && !details.IsPrincipal {
			if err := affaire.CanUnmark(contact, siblings); err != nil {
				return err
			}
		}
		if !contact.IsPrincipal && !details.IsPrincipal && affaire.Principal(siblings) == nil {
			details.IsPrincipal = true
		}

		if err := contact.Update(details); err != nil {
			return err
		}
		if contact.IsPrincipal {
			if err := repos.Contacts().ClearPrincipal(ctx, affaireID, contact.ID); err != nil {
				return err
			}
		}
		return repos.Contacts().Save(ctx, contact)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	resp := ToContactResponse(contact)
	return &resp, nil
}

// DeleteContact removes a contact. When it was principal, the earliest
// remaining contact of the affaire is promoted.
func (s *ContactService) DeleteContact(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "contact", "delete")
	defer span.End()

	var promoted *affaire.Contact
	err := s.tx.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		contact, err := repos.Contacts().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := repos.Contacts().Delete(ctx, id); err != nil {
			return err
		}
		if !contact.IsPrincipal || contact.AffaireID == nil {
			return nil
		}

		siblings, err := repos.Contacts().FindByAffaire(ctx, *contact.AffaireID)
		if err != nil {
			return err
		}
		promoted = affaire.Successor(siblings, id)
		if promoted == nil {
			return nil
		}
		promoted.MarkPrincipal(true)
		return repos.Contacts().Save(ctx, promoted)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	fields := []zap.Field{zap.String("contact_id", id.String())}
	if promoted != nil {
		fields = append(fields, zap.String("promoted_contact_id", promoted.ID.String()))
	}
	logger.L(ctx).Info("contact deleted", fields...)
	return nil
}

// SaveAffaireContacts applies a batch of contact lines to an affaire in one
// transaction. The batch is validated as a whole before any write: it must
// not be empty and may mark at most one principal. When no line is principal
// and the affaire would be left without one, the first line is promoted.
func (s *ContactService) SaveAffaireContacts(ctx context.Context, affaireID uuid.UUID, req ContactBatchRequest) ([]ContactResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "contact", "save_batch",
		telemetry.SpanAttrAffaireID, affaireID.String(),
		telemetry.SpanAttrRows, len(req.Contacts))
	defer span.End()

	batch := make([]affaire.ContactDetails, len(req.Contacts))
	for i, item := range req.Contacts {
		batch[i] = item.details()
	}
	if err := affaire.ValidateBatch(batch); err != nil {
		return nil, err
	}

	var saved []affaire.Contact
	err := s.tx.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		if _, err := repos.Affaires().FindByID(ctx, affaireID); err != nil {
			return err
		}
		existing, err := repos.Contacts().FindByAffaire(ctx, affaireID)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*affaire.Contact, len(existing))
		for i := range existing {
			byID[existing[i].ID] = &existing[i]
		}

		lines := make([]*affaire.Contact, len(req.Contacts))
		touched := make(map[uuid.UUID]bool, len(req.Contacts))
		for i, item := range req.Contacts {
			if item.ID == nil {
				c, err := affaire.NewContact(affaireID, batch[i])
				if err != nil {
					return err
				}
				lines[i] = c
				continue
			}
			c, ok := byID[*item.ID]
			if !ok {
				return shared.NewDomainError("INVALID_INPUT", "Contact "+item.ID.String()+" does not belong to this affaire")
			}
			if touched[c.ID] {
				return shared.NewDomainError("INVALID_INPUT", "Contact "+item.ID.String()+" appears twice in the batch")
			}
			if err := c.Update(batch[i]); err != nil {
				return err
			}
			touched[c.ID] = true
			lines[i] = c
		}

		principal := principalLine(lines)
		if principal == nil && !keepsPrincipal(existing, touched) {
			principal = lines[0]
			principal.MarkPrincipal(true)
		}

		if principal != nil {
			if err := repos.Contacts().ClearPrincipal(ctx, affaireID, principal.ID); err != nil {
				return err
			}
		}
		// principal last so the partial unique index never sees two
		for _, c := range lines {
			if c == principal {
				continue
			}
			if err := repos.Contacts().Save(ctx, c); err != nil {
				return err
			}
		}
		if principal != nil {
			if err := repos.Contacts().Save(ctx, principal); err != nil {
				return err
			}
		}

		saved, err = repos.Contacts().FindByAffaire(ctx, affaireID)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.L(ctx).Info("affaire contacts saved",
		zap.String("affaire_id", affaireID.String()),
		zap.Int("lines", len(req.Contacts)))
	return ToContactResponses(saved), nil
}

func principalLine(lines []*affaire.Contact) *affaire.Contact {
	for _, c := range lines {
		if c.IsPrincipal {
			return c
		}
	}
	return nil
}

// keepsPrincipal reports whether a contact outside the batch stays principal
func keepsPrincipal(existing []affaire.Contact, touched map[uuid.UUID]bool) bool {
	for i := range existing {
		if existing[i].IsPrincipal && !touched[existing[i].ID] {
			return true
		}
	}
	return false
}
