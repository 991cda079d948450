package finance

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gestion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Common payment methods
const (
	PaymentMethodVirement = "VRT"
	PaymentMethodCheque   = "CHQ"
)

// Payment is a settlement received against an invoice
type Payment struct {
	shared.BaseEntity
	InvoiceID     uuid.UUID
	Date          time.Time
	Amount        decimal.Decimal
	PaymentMethod string
}

// NewPayment creates a payment. Negative amounts are allowed for refunds and
// credit notes; zero is not.
func NewPayment(invoiceID uuid.UUID, date time.Time, amount decimal.Decimal, method string) (*Payment, error) {
	p := &Payment{
		BaseEntity: shared.NewBaseEntity(),
		InvoiceID:  invoiceID,
	}
	if err := p.Update(date, amount, method); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces date, amount and method
func (p *Payment) Update(date time.Time, amount decimal.Decimal, method string) error {
	method = strings.TrimSpace(method)
	if date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Payment date is required")
	}
	if amount.IsZero() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount cannot be zero")
	}
	if !amount.Equal(amount.Round(2)) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot have more than 2 decimal places")
	}
	if method == "" {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is required")
	}
	if utf8.RuneCountInString(method) > 50 {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method cannot exceed 50 characters")
	}

	p.Date = shared.DateOf(date)
	p.Amount = amount
	p.PaymentMethod = method
	p.Touch()
	return nil
}

// SumPayments adds up payment amounts exactly
func SumPayments(payments []Payment) decimal.Decimal {
	total := decimal.Zero
	for i := range payments {
		total = total.Add(payments[i].Amount)
	}
	return total
}
