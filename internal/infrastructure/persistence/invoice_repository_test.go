package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	appshared "github.com/gestion/backend/internal/application/shared"
	"github.com/gestion/backend/internal/domain/finance"
	"github.com/gestion/backend/internal/domain/shared"
	"github.com/gestion/backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormInvoiceRepository_FindByIDForUpdate_SQL(t *testing.T) {
	t.Run("locks the invoice row", func(t *testing.T) {
		m := testutil.NewMockDB(t)
		repo := NewGormInvoiceRepository(m.DB)

		invoiceID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "version", "invoice_number", "amount_ht", "vat_rate", "statut"}).
			AddRow(invoiceID, 3, "F001", "1000.00", "20.00", "partiellement_payee")

		m.Mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE id = \$1 ORDER BY .* LIMIT \$2 FOR UPDATE`).
			WithArgs(invoiceID, 1).
			WillReturnRows(rows)

		inv, err := repo.FindByIDForUpdate(context.Background(), invoiceID)

		require.NoError(t, err)
		assert.Equal(t, invoiceID, inv.ID)
		assert.Equal(t, 3, inv.Version)
		assert.Equal(t, finance.InvoiceStatusPartiellementPayee, inv.Status)
		assert.True(t, decimal.NewFromInt(1000).Equal(inv.AmountHT))
		m.ExpectationsWereMet(t)
	})

	t.Run("maps record not found to domain error", func(t *testing.T) {
		m := testutil.NewMockDB(t)
		repo := NewGormInvoiceRepository(m.DB)

		invoiceID := uuid.New()
		m.Mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE id = \$1 ORDER BY .* LIMIT \$2 FOR UPDATE`).
			WithArgs(invoiceID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		inv, err := repo.FindByIDForUpdate(context.Background(), invoiceID)

		assert.Nil(t, inv)
		assert.Equal(t, shared.ErrNotFound, err)
		m.ExpectationsWereMet(t)
	})
}

func TestGormInvoiceRepository_FindByIDForUpdate_SQLite(t *testing.T) {
	f := newFixture(t)
	a := f.affaire(t, "A001", "0", f.client(t, "ACME"))
	inv := f.invoice(t, "F001", a, "100")

	var locked *finance.Invoice
	err := NewGormTransactionScope(f.db).Execute(f.ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		locked, err = repos.Invoices().FindByIDForUpdate(f.ctx, inv.ID)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, inv.ID, locked.ID)
	assert.Equal(t, "F001", locked.InvoiceNumber)
}

func TestInvoiceRepository_ZeroVATRate(t *testing.T) {
	f := newFixture(t)
	a := f.affaire(t, "A001", "0", f.client(t, "ACME"))

	inv, err := finance.NewInvoice(a.ID, finance.InvoiceDetails{
		Date:          testutil.Date(2024, 1, 15),
		InvoiceNumber: "F001",
		AmountHT:      decimal.NewFromInt(100),
		VATRate:       decimal.Zero,
	})
	require.NoError(t, err)
	require.NoError(t, f.invoices.Save(f.ctx, inv))

	stored, err := f.invoices.FindByID(f.ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, stored.VATRate.IsZero(), "got %s", stored.VATRate)
	assert.True(t, decimal.NewFromInt(100).Equal(stored.AmountTTC()))
}
