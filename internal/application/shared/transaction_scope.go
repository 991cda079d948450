package shared

import (
	"context"

	"github.com/gestion/backend/internal/domain/affaire"
	"github.com/gestion/backend/internal/domain/finance"
	"github.com/gestion/backend/internal/domain/identity"
	"github.com/gestion/backend/internal/domain/partner"
)

// TransactionScope defines an interface for executing operations within a transaction.
// The write and the invariant maintenance it triggers (principal contact,
// invoice status) go through the same scope so they commit or roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories within a transaction.
// All repositories returned share the same underlying database transaction.
type TransactionalRepositories interface {
	Clients() partner.ClientRepository
	Affaires() affaire.AffaireRepository
	Contacts() affaire.ContactRepository
	Invoices() finance.InvoiceRepository
	Payments() finance.PaymentRepository
	Users() identity.UserRepository
}

// Repositories is a plain set of repositories
type Repositories struct {
	ClientRepo  partner.ClientRepository
	AffaireRepo affaire.AffaireRepository
	ContactRepo affaire.ContactRepository
	InvoiceRepo finance.InvoiceRepository
	PaymentRepo finance.PaymentRepository
	UserRepo    identity.UserRepository
}

// Clients returns the client repository
func (r Repositories) Clients() partner.ClientRepository { return r.ClientRepo }

// Affaires returns the affaire repository
func (r Repositories) Affaires() affaire.AffaireRepository { return r.AffaireRepo }

// Contacts returns the contact repository
func (r Repositories) Contacts() affaire.ContactRepository { return r.ContactRepo }

// Invoices returns the invoice repository
func (r Repositories) Invoices() finance.InvoiceRepository { return r.InvoiceRepo }

// Payments returns the payment repository
func (r Repositories) Payments() finance.PaymentRepository { return r.PaymentRepo }

// Users returns the user repository
func (r Repositories) Users() identity.UserRepository { return r.UserRepo }

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing with in-memory or mocked repositories.
type NoOpTransactionScope struct {
	repos Repositories
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(repos Repositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.repos)
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = Repositories{}
