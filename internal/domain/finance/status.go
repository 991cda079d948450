package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the payment state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusAPayer             InvoiceStatus = "a_payer"
	InvoiceStatusPartiellementPayee InvoiceStatus = "partiellement_payee"
	InvoiceStatusPayee              InvoiceStatus = "payee"
	InvoiceStatusEnRetard           InvoiceStatus = "en_retard"
	InvoiceStatusAnnulee            InvoiceStatus = "annulee"
)

// AllInvoiceStatuses lists statuses in display order
var AllInvoiceStatuses = []InvoiceStatus{
	InvoiceStatusAPayer,
	InvoiceStatusPartiellementPayee,
	InvoiceStatusPayee,
	InvoiceStatusEnRetard,
	InvoiceStatusAnnulee,
}

// IsValid checks if the status is known
func (s InvoiceStatus) IsValid() bool {
	for _, known := range AllInvoiceStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Label returns the French label shown to users
func (s InvoiceStatus) Label() string {
	switch s {
	case InvoiceStatusAPayer:
		return "À payer"
	case InvoiceStatusPartiellementPayee:
		return "Partiellement payée"
	case InvoiceStatusPayee:
		return "Payée"
	case InvoiceStatusEnRetard:
		return "En retard"
	case InvoiceStatusAnnulee:
		return "Annulée"
	}
	return string(s)
}

// DeriveStatus applies the payment rule. Never returns annulee.
//
// Credit notes (negative TTC) are compared on magnitudes so that a credit note
// offset by an equal negative payment is payee.
func DeriveStatus(amountTTC, paid decimal.Decimal, dueDate, today time.Time) InvoiceStatus {
	if amountTTC.IsNegative() {
		amountTTC = amountTTC.Neg()
		paid = paid.Neg()
	}
	switch {
	case paid.GreaterThanOrEqual(amountTTC):
		return InvoiceStatusPayee
	case paid.IsPositive():
		return InvoiceStatusPartiellementPayee
	case today.After(dueDate):
		return InvoiceStatusEnRetard
	default:
		return InvoiceStatusAPayer
	}
}
