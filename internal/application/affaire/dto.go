package affaire

import (
	"time"

	"github.com/gestion/backend/internal/domain/affaire"
	"github.com/gestion/backend/internal/domain/partner"
	"github.com/gestion/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AffaireRequest is the payload for creating or replacing an affaire
type AffaireRequest struct {
	AffaireNumber      string          `json:"affaire_number" binding:"required,max=10"`
	AffaireDescription string          `json:"affaire_description" binding:"max=200"`
	Budget             decimal.Decimal `json:"budget"`
	ClientID           *uuid.UUID      `json:"client_id"`
	AuthorID           *uuid.UUID      `json:"author_id"`
}

// AffaireListFilter represents filter options for the affaire list
type AffaireListFilter struct {
	Search   string     `form:"search"`
	ClientID *uuid.UUID `form:"client_id"`
	AuthorID *uuid.UUID `form:"author_id"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AffaireResponse represents an affaire with its invoicing progress
type AffaireResponse struct {
	ID                    uuid.UUID        `json:"id"`
	AffaireNumber         string           `json:"affaire_number"`
	AffaireDescription    string           `json:"affaire_description"`
	ClientID              *uuid.UUID       `json:"client_id"`
	ClientEntityName      string           `json:"client_entity_name"`
	ClientDisplayName     string           `json:"client_display_name"`
	AuthorID              *uuid.UUID       `json:"author_id"`
	Budget                decimal.Decimal  `json:"budget"`
	BudgetDisplay         string           `json:"budget_display"`
	TotalFactureHT        decimal.Decimal  `json:"total_facture_ht"`
	TotalFactureHTDisplay string           `json:"total_facture_ht_display"`
	ResteAFacturer        decimal.Decimal  `json:"reste_a_facturer"`
	ResteAFacturerDisplay string           `json:"reste_a_facturer_display"`
	TauxAvancement        decimal.Decimal  `json:"taux_avancement"`
	TauxAvancementDisplay string           `json:"taux_avancement_display"`
	InvoiceCount          int              `json:"invoice_count"`
	ContactPrincipal      *ContactResponse `json:"contact_principal"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
	Version               int              `json:"version"`
}

// ToAffaireResponse builds the response for an affaire. live is the current
// client row or nil when the client is gone; amounts are the HT amounts of the
// affaire's invoices.
func ToAffaireResponse(a *affaire.Affaire, live *partner.Client, amounts []decimal.Decimal, principal *affaire.Contact) AffaireResponse {
	progress := a.Progress(amounts)
	resp := AffaireResponse{
		ID:                    a.ID,
		AffaireNumber:         a.AffaireNumber,
		AffaireDescription:    a.AffaireDescription,
		ClientID:              a.ClientID,
		ClientEntityName:      a.ClientEntityName,
		ClientDisplayName:     a.ClientDisplayName(live),
		AuthorID:              a.AuthorID,
		Budget:                progress.Budget,
		BudgetDisplay:         valueobject.FormatEUR(progress.Budget),
		TotalFactureHT:        progress.TotalFactureHT,
		TotalFactureHTDisplay: valueobject.FormatEUR(progress.TotalFactureHT),
		ResteAFacturer:        progress.ResteAFacturer,
		ResteAFacturerDisplay: valueobject.FormatEUR(progress.ResteAFacturer),
		TauxAvancement:        progress.TauxAvancement,
		TauxAvancementDisplay: valueobject.FormatPercent(progress.TauxAvancement),
		InvoiceCount:          len(amounts),
		CreatedAt:             a.CreatedAt,
		UpdatedAt:             a.UpdatedAt,
		Version:               a.Version,
	}
	if principal != nil {
		c := ToContactResponse(principal)
		resp.ContactPrincipal = &c
	}
	return resp
}

// ContactRequest is the payload for creating or replacing a contact
type ContactRequest struct {
	Nom         string `json:"nom" binding:"max=100"`
	Prenom      string `json:"prenom" binding:"max=100"`
	Fonction    string `json:"fonction" binding:"max=100"`
	PhoneNumber string `json:"phone_number" binding:"max=20"`
	Email       string `json:"email" binding:"omitempty,max=254,email"`
	IsPrincipal bool   `json:"is_principal"`
}

func (r ContactRequest) details() affaire.ContactDetails {
	return affaire.ContactDetails{
		Nom:         r.Nom,
		Prenom:      r.Prenom,
		Fonction:    r.Fonction,
		PhoneNumber: r.PhoneNumber,
		Email:       r.Email,
		IsPrincipal: r.IsPrincipal,
	}
}

// ContactBatchItem is one line of a batch submission. Lines with an id
// update that contact, lines without create a new one.
type ContactBatchItem struct {
	ID *uuid.UUID `json:"id"`
	ContactRequest
}

// ContactBatchRequest replaces the contact lines of an affaire in one go
type ContactBatchRequest struct {
	Contacts []ContactBatchItem `json:"contacts" binding:"dive"`
}

// ContactResponse represents a contact in API responses
type ContactResponse struct {
	ID          uuid.UUID  `json:"id"`
	AffaireID   *uuid.UUID `json:"affaire_id"`
	Nom         string     `json:"nom"`
	Prenom      string     `json:"prenom"`
	Fonction    string     `json:"fonction"`
	PhoneNumber string     `json:"phone_number"`
	Email       string     `json:"email"`
	IsPrincipal bool       `json:"is_principal"`
	DisplayName string     `json:"display_name"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToContactResponse converts a domain contact
func ToContactResponse(c *affaire.Contact) ContactResponse {
	return ContactResponse{
		ID:          c.ID,
		AffaireID:   c.AffaireID,
		Nom:         c.Nom,
		Prenom:      c.Prenom,
		Fonction:    c.Fonction,
		PhoneNumber: c.PhoneNumber,
		Email:       c.Email,
		IsPrincipal: c.IsPrincipal,
		DisplayName: c.DisplayName(),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToContactResponses converts a slice of contacts
func ToContactResponses(contacts []affaire.Contact) []ContactResponse {
	out := make([]ContactResponse, len(contacts))
	for i := range contacts {
		out[i] = ToContactResponse(&contacts[i])
	}
	return out
}
