package partner

import (
	"time"

	"github.com/gestion/backend/internal/domain/affaire"
	"github.com/gestion/backend/internal/domain/partner"
	"github.com/gestion/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClientRequest is the payload for creating or replacing a client
type ClientRequest struct {
	EntityName  string `json:"entity_name" binding:"required,max=100"`
	Address     string `json:"address" binding:"max=255"`
	ZipCode     string `json:"zip_code" binding:"max=5"`
	City        string `json:"city" binding:"max=100"`
	Contact     string `json:"contact" binding:"max=100"`
	PhoneNumber string `json:"phone_number" binding:"max=20"`
	Email       string `json:"email" binding:"omitempty,max=254,email"`
}

// ContactSummary is the principal contact shown on a client
type ContactSummary struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	PhoneNumber string    `json:"phone_number"`
	Email       string    `json:"email"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID                        uuid.UUID       `json:"id"`
	EntityName                string          `json:"entity_name"`
	Address                   string          `json:"address"`
	ZipCode                   string          `json:"zip_code"`
	City                      string          `json:"city"`
	FullAddress               string          `json:"full_address"`
	Contact                   string          `json:"contact"`
	PhoneNumber               string          `json:"phone_number"`
	Email                     string          `json:"email"`
	TotalAffaireClient        decimal.Decimal `json:"total_affaire_client"`
	TotalAffaireClientDisplay string          `json:"total_affaire_client_display"`
	AffaireCount              int             `json:"affaire_count"`
	ContactPrincipal          *ContactSummary `json:"contact_principal"`
	CreatedAt                 time.Time       `json:"created_at"`
	UpdatedAt                 time.Time       `json:"updated_at"`
	Version                   int             `json:"version"`
}

// ToClientResponse builds the response for a client, its affaires and the
// principal contact of its earliest affaire
func ToClientResponse(c *partner.Client, affaires []affaire.Affaire, principal *affaire.Contact) ClientResponse {
	total := affaire.TotalBudget(affaires)
	resp := ClientResponse{
		ID:                        c.ID,
		EntityName:                c.EntityName,
		Address:                   c.Address.Street(),
		ZipCode:                   c.Address.ZipCode(),
		City:                      c.Address.City(),
		FullAddress:               c.Address.FullAddress(),
		Contact:                   c.Contact,
		PhoneNumber:               c.PhoneNumber,
		Email:                     c.Email,
		TotalAffaireClient:        total,
		TotalAffaireClientDisplay: valueobject.FormatEUR(total),
		AffaireCount:              len(affaires),
		CreatedAt:                 c.CreatedAt,
		UpdatedAt:                 c.UpdatedAt,
		Version:                   c.Version,
	}
	if principal != nil {
		resp.ContactPrincipal = &ContactSummary{
			ID:          principal.ID,
			DisplayName: principal.DisplayName(),
			PhoneNumber: principal.PhoneNumber,
			Email:       principal.Email,
		}
	}
	return resp
}

// ClientListFilter represents filter options for the client list
type ClientListFilter struct {
	Search   string `form:"search"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}
