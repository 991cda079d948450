package finance

import (
	"time"

	appshared "github.com/gestion/backend/internal/application/shared"
	"github.com/gestion/backend/internal/domain/finance"
	"github.com/gestion/backend/internal/domain/partner"
	"github.com/gestion/backend/internal/domain/shared"
	"github.com/gestion/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceRequest is the payload for creating or replacing an invoice
type InvoiceRequest struct {
	AffaireID     uuid.UUID        `json:"affaire_id" binding:"required"`
	ClientID      *uuid.UUID       `json:"client_id"`
	AuthorID      *uuid.UUID       `json:"author_id"`
	ContactID     *uuid.UUID       `json:"contact_id"`
	Date          string           `json:"date" binding:"required,datetime=2006-01-02"`
	Type          string           `json:"type" binding:"omitempty,oneof=facture proforma avoir"`
	InvoiceNumber string           `json:"invoice_number" binding:"required,max=10"`
	InvoiceObject string           `json:"invoice_object" binding:"max=200"`
	AmountHT      *decimal.Decimal `json:"amount_ht" binding:"required"`
	VATRate       *decimal.Decimal `json:"vat_rate"`
	// Version, when given on update, must match the stored version
	Version *int `json:"version"`
}

func (r InvoiceRequest) details() (finance.InvoiceDetails, error) {
	if r.AmountHT == nil {
		return finance.InvoiceDetails{}, shared.NewDomainError("INVALID_AMOUNT", "Amount excluding tax is required")
	}
	date, err := appshared.ParseDate(r.Date)
	if err != nil {
		return finance.InvoiceDetails{}, err
	}
	t, err := finance.ParseInvoiceType(r.Type)
	if err != nil {
		return finance.InvoiceDetails{}, err
	}
	vat := finance.DefaultVATRate
	if r.VATRate != nil {
		vat = *r.VATRate
	}
	return finance.InvoiceDetails{
		Date:          date,
		Type:          t,
		InvoiceNumber: r.InvoiceNumber,
		InvoiceObject: r.InvoiceObject,
		AmountHT:      *r.AmountHT,
		VATRate:       vat,
	}, nil
}

// InvoiceListFilter represents filter options for the invoice list
type InvoiceListFilter struct {
	Statut    string     `form:"statut" binding:"omitempty,oneof=a_payer partiellement_payee payee en_retard annulee"`
	AffaireID *uuid.UUID `form:"affaire_id"`
	ClientID  *uuid.UUID `form:"client_id"`
	DateDebut string     `form:"date_debut" binding:"omitempty,datetime=2006-01-02"`
	DateFin   string     `form:"date_fin" binding:"omitempty,datetime=2006-01-02"`
	Search    string     `form:"search"`
}

// InvoiceResponse represents an invoice with its derived amounts
type InvoiceResponse struct {
	ID                uuid.UUID         `json:"id"`
	AffaireID         uuid.UUID         `json:"affaire_id"`
	AffaireNumber     string            `json:"affaire_number"`
	ClientID          *uuid.UUID        `json:"client_id"`
	ClientEntityName  string            `json:"client_entity_name"`
	ClientDisplayName string            `json:"client_display_name"`
	AuthorID          *uuid.UUID        `json:"author_id"`
	ContactID         *uuid.UUID        `json:"contact_id"`
	Date              string            `json:"date"`
	DueDate           string            `json:"due_date"`
	DaysOverdue       int               `json:"days_overdue"`
	Type              string            `json:"type"`
	InvoiceNumber     string            `json:"invoice_number"`
	InvoiceObject     string            `json:"invoice_object"`
	AmountHT          decimal.Decimal   `json:"amount_ht"`
	AmountHTDisplay   string            `json:"amount_ht_display"`
	VATRate           decimal.Decimal   `json:"vat_rate"`
	AmountTVA         decimal.Decimal   `json:"amount_tva"`
	AmountTTC         decimal.Decimal   `json:"amount_ttc"`
	AmountTTCDisplay  string            `json:"amount_ttc_display"`
	TotalPaid         decimal.Decimal   `json:"total_paid"`
	Balance           decimal.Decimal   `json:"balance"`
	BalanceDisplay    string            `json:"balance_display"`
	Statut            string            `json:"statut"`
	StatutLabel       string            `json:"statut_label"`
	Payments          []PaymentResponse `json:"payments,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	Version           int               `json:"version"`
}

// ToInvoiceResponse builds the response for an invoice given its payments,
// the live client (nil when gone) and today's date
func ToInvoiceResponse(inv *finance.Invoice, payments []finance.Payment, live *partner.Client, today time.Time) InvoiceResponse {
	paid := finance.SumPayments(payments)
	balance := inv.Balance(paid)
	return InvoiceResponse{
		ID:                inv.ID,
		AffaireID:         inv.AffaireID,
		AffaireNumber:     inv.AffaireNumber,
		ClientID:          inv.ClientID,
		ClientEntityName:  inv.ClientEntityName,
		ClientDisplayName: inv.ClientDisplayName(live),
		AuthorID:          inv.AuthorID,
		ContactID:         inv.ContactID,
		Date:              appshared.FormatDate(inv.Date),
		DueDate:           appshared.FormatDate(inv.DueDate()),
		DaysOverdue:       inv.DaysOverdue(today),
		Type:              string(inv.Type),
		InvoiceNumber:     inv.InvoiceNumber,
		InvoiceObject:     inv.InvoiceObject,
		AmountHT:          inv.AmountHT,
		AmountHTDisplay:   valueobject.FormatEUR(inv.AmountHT),
		VATRate:           inv.VATRate,
		AmountTVA:         inv.AmountTVA(),
		AmountTTC:         inv.AmountTTC(),
		AmountTTCDisplay:  valueobject.FormatEUR(inv.AmountTTC()),
		TotalPaid:         paid,
		Balance:           balance,
		BalanceDisplay:    valueobject.FormatEUR(balance),
		Statut:            string(inv.Status),
		StatutLabel:       inv.Status.Label(),
		CreatedAt:         inv.CreatedAt,
		UpdatedAt:         inv.UpdatedAt,
		Version:           inv.Version,
	}
}

// PaymentRequest is the payload for recording or replacing a payment
type PaymentRequest struct {
	Date          string          `json:"date" binding:"required,datetime=2006-01-02"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method" binding:"required,max=50"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	Date          string          `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	AmountDisplay string          `json:"amount_display"`
	PaymentMethod string          `json:"payment_method"`
	// InvoiceStatut is the invoice status after the write
	InvoiceStatut string    `json:"invoice_statut,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToPaymentResponse converts a domain payment
func ToPaymentResponse(p *finance.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		InvoiceID:     p.InvoiceID,
		Date:          appshared.FormatDate(p.Date),
		Amount:        p.Amount,
		AmountDisplay: valueobject.FormatEUR(p.Amount),
		PaymentMethod: p.PaymentMethod,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToPaymentResponses converts a slice of payments
func ToPaymentResponses(payments []finance.Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(payments))
	for i := range payments {
		out[i] = ToPaymentResponse(&payments[i])
	}
	return out
}
