package finance

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gestion/backend/internal/domain/partner"
	"github.com/gestion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentTermDays is the fixed net term between invoice date and due date
const PaymentTermDays = 30

// DefaultVATRate is the standard French VAT rate in percent
var DefaultVATRate = decimal.NewFromInt(20)

var hundred = decimal.NewFromInt(100)

// InvoiceType distinguishes invoices, pro-forma invoices and credit notes
type InvoiceType string

const (
	InvoiceTypeFacture  InvoiceType = "facture"
	InvoiceTypeProforma InvoiceType = "proforma"
	InvoiceTypeAvoir    InvoiceType = "avoir"
)

// IsValid checks if the invoice type is known
func (t InvoiceType) IsValid() bool {
	switch t {
	case InvoiceTypeFacture, InvoiceTypeProforma, InvoiceTypeAvoir:
		return true
	}
	return false
}

// ParseInvoiceType accepts the stored value or its capitalized label
func ParseInvoiceType(s string) (InvoiceType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return InvoiceTypeFacture, nil
	case "pro forma", "pro-forma":
		return InvoiceTypeProforma, nil
	}
	t := InvoiceType(s)
	if !t.IsValid() {
		return "", shared.NewDomainError("INVALID_TYPE", "Unknown invoice type: "+s)
	}
	return t, nil
}

// InvoiceDetails carries the editable fields of an invoice
type InvoiceDetails struct {
	Date          time.Time
	Type          InvoiceType
	InvoiceNumber string
	InvoiceObject string
	AmountHT      decimal.Decimal
	VATRate       decimal.Decimal
}

// Invoice is a bill issued under an affaire. It is the aggregate root for
// its payments.
type Invoice struct {
	shared.BaseAggregateRoot
	AffaireID uuid.UUID
	// AffaireNumber and ClientEntityName are snapshots taken on write
	AffaireNumber    string
	ClientID         *uuid.UUID
	ClientEntityName string
	AuthorID         *uuid.UUID
	ContactID        *uuid.UUID
	Date             time.Time
	Type             InvoiceType
	InvoiceNumber    string
	InvoiceObject    string
	AmountHT         decimal.Decimal
	VATRate          decimal.Decimal
	Status           InvoiceStatus
}

// NewInvoice creates an invoice for an affaire with status a_payer
func NewInvoice(affaireID uuid.UUID, details InvoiceDetails) (*Invoice, error) {
	details, err := normalizeInvoiceDetails(details)
	if err != nil {
		return nil, err
	}
	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AffaireID:         affaireID,
		Status:            InvoiceStatusAPayer,
	}
	inv.apply(details)
	return inv, nil
}

// Update replaces the editable fields. The caller recomputes the status
// afterwards since amount and date drive it.
func (i *Invoice) Update(details InvoiceDetails) error {
	details, err := normalizeInvoiceDetails(details)
	if err != nil {
		return err
	}
	i.apply(details)
	i.Touch()
	i.IncrementVersion()
	return nil
}

// SetAffaire links the invoice to an affaire and snapshots its number
func (i *Invoice) SetAffaire(affaireID uuid.UUID, affaireNumber string) {
	i.AffaireID = affaireID
	i.AffaireNumber = affaireNumber
}

// SetClient links the invoice to a client and snapshots its name.
// A nil client clears the link and keeps the current snapshot.
func (i *Invoice) SetClient(client *partner.Client) {
	if client == nil {
		i.ClientID = nil
		return
	}
	id := client.ID
	i.ClientID = &id
	i.ClientEntityName = client.EntityName
}

// SetAuthor sets or clears the author
func (i *Invoice) SetAuthor(authorID *uuid.UUID) {
	i.AuthorID = authorID
}

// SetContact sets or clears the contact
func (i *Invoice) SetContact(contactID *uuid.UUID) {
	i.ContactID = contactID
}

// AmountTTC returns amount_ht * (1 + vat_rate/100), unrounded
func (i *Invoice) AmountTTC() decimal.Decimal {
	return i.AmountHT.Mul(decimal.NewFromInt(1).Add(i.VATRate.Div(hundred)))
}

// AmountTVA returns the VAT part of the invoice
func (i *Invoice) AmountTVA() decimal.Decimal {
	return i.AmountTTC().Sub(i.AmountHT)
}

// DueDate returns the invoice date plus the payment term
func (i *Invoice) DueDate() time.Time {
	return shared.DateOf(i.Date).AddDate(0, 0, PaymentTermDays)
}

// Balance returns what remains to be paid given the payments total
func (i *Invoice) Balance(paid decimal.Decimal) decimal.Decimal {
	return i.AmountTTC().Sub(paid)
}

// DaysOverdue returns how many days today is past the due date, 0 otherwise
func (i *Invoice) DaysOverdue(today time.Time) int {
	days := shared.DaysBetween(i.DueDate(), today)
	if days < 0 {
		return 0
	}
	return days
}

// ClientDisplayName returns the name to show for the invoice's client
func (i *Invoice) ClientDisplayName(live *partner.Client) string {
	return partner.DisplayName(live, i.ClientEntityName)
}

// RecomputeStatus derives the status from the payments total and today.
// A cancelled invoice is left untouched. It reports whether the status changed.
func (i *Invoice) RecomputeStatus(paid decimal.Decimal, today time.Time) bool {
	if i.Status == InvoiceStatusAnnulee {
		return false
	}
	next := DeriveStatus(i.AmountTTC(), paid, i.DueDate(), today)
	if next == i.Status {
		return false
	}
	i.Status = next
	i.Touch()
	return true
}

// Cancel moves the invoice to the terminal annulee state
func (i *Invoice) Cancel() error {
	if i.Status == InvoiceStatusAnnulee {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already cancelled")
	}
	i.Status = InvoiceStatusAnnulee
	i.Touch()
	i.IncrementVersion()
	return nil
}

// CanRecordPayment checks whether payments may be written against the invoice
func (i *Invoice) CanRecordPayment() error {
	if i.Status == InvoiceStatusAnnulee {
		return shared.NewDomainError("INVALID_STATE", "Cannot record payments on a cancelled invoice")
	}
	return nil
}

func (i *Invoice) apply(d InvoiceDetails) {
	i.Date = d.Date
	i.Type = d.Type
	i.InvoiceNumber = d.InvoiceNumber
	i.InvoiceObject = d.InvoiceObject
	i.AmountHT = d.AmountHT
	i.VATRate = d.VATRate
}

func normalizeInvoiceDetails(d InvoiceDetails) (InvoiceDetails, error) {
	d.InvoiceNumber = strings.TrimSpace(d.InvoiceNumber)
	d.InvoiceObject = strings.TrimSpace(d.InvoiceObject)
	if d.Type == "" {
		d.Type = InvoiceTypeFacture
	}
	if !d.Type.IsValid() {
		return d, shared.NewDomainError("INVALID_TYPE", "Unknown invoice type: "+string(d.Type))
	}
	if d.InvoiceNumber == "" {
		return d, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if utf8.RuneCountInString(d.InvoiceNumber) > 10 {
		return d, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot exceed 10 characters")
	}
	if utf8.RuneCountInString(d.InvoiceObject) > 200 {
		return d, shared.NewDomainError("INVALID_INVOICE_OBJECT", "Invoice object cannot exceed 200 characters")
	}
	if d.Date.IsZero() {
		return d, shared.NewDomainError("INVALID_DATE", "Invoice date is required")
	}
	d.Date = shared.DateOf(d.Date)
	if !d.AmountHT.Equal(d.AmountHT.Round(2)) {
		return d, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot have more than 2 decimal places")
	}
	if d.VATRate.IsNegative() || d.VATRate.GreaterThan(hundred) {
		return d, shared.NewDomainError("INVALID_VAT_RATE", "VAT rate must be between 0 and 100")
	}
	if !d.VATRate.Equal(d.VATRate.Round(2)) {
		return d, shared.NewDomainError("INVALID_VAT_RATE", "VAT rate cannot have more than 2 decimal places")
	}
	return d, nil
}
