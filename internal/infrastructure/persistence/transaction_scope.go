package persistence

import (
	"context"

	appshared "github.com/gestion/backend/internal/application/shared"
	"github.com/gestion/backend/internal/domain/affaire"
	"github.com/gestion/backend/internal/domain/finance"
	"github.com/gestion/backend/internal/domain/identity"
	"github.com/gestion/backend/internal/domain/partner"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appshared.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Clients() partner.ClientRepository {
	return NewGormClientRepository(r.tx)
}

func (r *gormTransactionalRepositories) Affaires() affaire.AffaireRepository {
	return NewGormAffaireRepository(r.tx)
}

func (r *gormTransactionalRepositories) Contacts() affaire.ContactRepository {
	return NewGormContactRepository(r.tx)
}

func (r *gormTransactionalRepositories) Invoices() finance.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

func (r *gormTransactionalRepositories) Payments() finance.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

func (r *gormTransactionalRepositories) Users() identity.UserRepository {
	return NewGormUserRepository(r.tx)
}

// Repositories returns non-transactional repositories bound to db
func Repositories(db *gorm.DB) appshared.Repositories {
	return appshared.Repositories{
		ClientRepo:  NewGormClientRepository(db),
		AffaireRepo: NewGormAffaireRepository(db),
		ContactRepo: NewGormContactRepository(db),
		InvoiceRepo: NewGormInvoiceRepository(db),
		PaymentRepo: NewGormPaymentRepository(db),
		UserRepo:    NewGormUserRepository(db),
	}
}

// Ensure GormTransactionScope implements TransactionScope
var _ appshared.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appshared.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
