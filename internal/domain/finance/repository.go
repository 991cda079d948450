package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// InvoiceFilter selects invoices. Zero values mean no condition.
type InvoiceFilter struct {
	Status    InvoiceStatus
	AffaireID *uuid.UUID
	// ClientID matches invoices linked to the client directly or through
	// one of its affaires
	ClientID  *uuid.UUID
	DateDebut *time.Time
	DateFin   *time.Time
	Search    string
}

// InvoiceRepository defines persistence operations for invoices
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	// FindByIDForUpdate loads an invoice and holds a row lock on it until the
	// surrounding transaction ends. Writes that derive the status from the
	// payment set go through it.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, number string) (*Invoice, error)
	// FindAll returns matching invoices, most recent date first
	FindAll(ctx context.Context, filter InvoiceFilter) ([]Invoice, error)
	FindByAffaire(ctx context.Context, affaireID uuid.UUID) ([]Invoice, error)
	FindByAffaires(ctx context.Context, affaireIDs []uuid.UUID) ([]Invoice, error)
	Save(ctx context.Context, invoice *Invoice) error
	// SaveWithLock saves an invoice whose version was incremented since it was
	// loaded. Returns ErrConcurrencyConflict when another write got there first.
	SaveWithLock(ctx context.Context, invoice *Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByAffaire(ctx context.Context, affaireID uuid.UUID) (int64, error)
	CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error)
	CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
}

// PaymentRepository defines persistence operations for payments
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	// FindByInvoice returns payments ordered by date
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]Payment, error)
	FindByInvoices(ctx context.Context, invoiceIDs []uuid.UUID) ([]Payment, error)
	Save(ctx context.Context, payment *Payment) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByInvoice(ctx context.Context, invoiceID uuid.UUID) (int64, error)
}

// GroupPaymentsByInvoice indexes payments by invoice id
func GroupPaymentsByInvoice(payments []Payment) map[uuid.UUID][]Payment {
	grouped := make(map[uuid.UUID][]Payment)
	for _, p := range payments {
		grouped[p.InvoiceID] = append(grouped[p.InvoiceID], p)
	}
	return grouped
}
