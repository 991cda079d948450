//go:build integration

package persistence_test

import (
	"context"
	"errors"
	"testing"
	"time"

	affaireapp "github.com/gestion/backend/internal/application/affaire"
	financeapp "github.com/gestion/backend/internal/application/finance"
	partnerapp "github.com/gestion/backend/internal/application/partner"
	"github.com/gestion/backend/internal/domain/finance"
	"github.com/gestion/backend/internal/domain/shared"
	"github.com/gestion/backend/internal/infrastructure/persistence"
	"github.com/gestion/backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pgEnv struct {
	ctx      context.Context
	db       *testutil.PostgresDB
	clients  *partnerapp.ClientService
	affaires *affaireapp.AffaireService
	contacts *affaireapp.ContactService
	invoices *financeapp.InvoiceService
	payments *financeapp.PaymentService
}

func newPgEnv(t *testing.T) *pgEnv {
	t.Helper()
	db := testutil.NewPostgresDB(t)
	repos := persistence.Repositories(db.DB)
	tx := persistence.NewGormTransactionScope(db.DB)
	clock := testutil.ClockAt(2024, time.March, 20)
	return &pgEnv{
		ctx:      context.Background(),
		db:       db,
		clients:  partnerapp.NewClientService(repos, tx),
		affaires: affaireapp.NewAffaireService(repos, tx),
		contacts: affaireapp.NewContactService(repos, tx),
		invoices: financeapp.NewInvoiceService(repos, tx, clock),
		payments: financeapp.NewPaymentService(repos, tx, clock),
	}
}

func (e *pgEnv) affaire(t *testing.T, number string, clientID *uuid.UUID) uuid.UUID {
	t.Helper()
	a, err := e.affaires.Create(e.ctx, affaireapp.AffaireRequest{
		AffaireNumber: number,
		Budget:        decimal.RequireFromString("5000"),
		ClientID:      clientID,
	})
	require.NoError(t, err)
	return a.ID
}

func amountHT(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func codeOf(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func TestPostgres_InvoiceLifecycle(t *testing.T) {
	e := newPgEnv(t)

	client, err := e.clients.Create(e.ctx, partnerapp.ClientRequest{EntityName: "Mairie de Lyon"})
	require.NoError(t, err)
	affaireID := e.affaire(t, "A24-001", &client.ID)

	inv, err := e.invoices.Create(e.ctx, financeapp.InvoiceRequest{
		AffaireID:     affaireID,
		Date:          "2024-03-01",
		InvoiceNumber: "F24-001",
		AmountHT:      amountHT("1234.56"),
	})
	require.NoError(t, err)
	assert.Equal(t, "1481.47", inv.AmountTTC.StringFixed(2))
	assert.Equal(t, "2024-03-31", inv.DueDate)
	assert.Equal(t, "Mairie de Lyon", inv.ClientEntityName)

	_, err = e.payments.RecordPayment(e.ctx, inv.ID, financeapp.PaymentRequest{
		Date:          "2024-03-10",
		Amount:        decimal.RequireFromString("481.47"),
		PaymentMethod: finance.PaymentMethodVirement,
	})
	require.NoError(t, err)

	got, err := e.invoices.GetByID(e.ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, string(finance.InvoiceStatusPartiellementPayee), got.Statut)
	assert.Equal(t, "1000.00", got.Balance.StringFixed(2))

	t.Run("invoice with payments is protected", func(t *testing.T) {
		err := e.invoices.Delete(e.ctx, inv.ID)
		assert.Equal(t, "PROTECTED", codeOf(err))
	})

	t.Run("affaire with invoices is protected", func(t *testing.T) {
		err := e.affaires.Delete(e.ctx, affaireID)
		assert.Equal(t, "PROTECTED", codeOf(err))
	})

	t.Run("duplicate invoice number", func(t *testing.T) {
		_, err := e.invoices.Create(e.ctx, financeapp.InvoiceRequest{
			AffaireID:     affaireID,
			Date:          "2024-03-02",
			InvoiceNumber: "F24-001",
			AmountHT:      amountHT("10"),
		})
		assert.Equal(t, "ALREADY_EXISTS", codeOf(err))
	})
}

func TestPostgres_PrincipalContactIndex(t *testing.T) {
	e := newPgEnv(t)
	affaireID := e.affaire(t, "A24-002", nil)

	first, err := e.contacts.CreateContact(e.ctx, affaireID, affaireapp.ContactRequest{Nom: "Martin", IsPrincipal: true})
	require.NoError(t, err)
	second, err := e.contacts.CreateContact(e.ctx, affaireID, affaireapp.ContactRequest{Nom: "Durand", IsPrincipal: true})
	require.NoError(t, err)

	list, err := e.contacts.ListByAffaire(e.ctx, affaireID)
	require.NoError(t, err)
	principals := 0
	for _, c := range list {
		if c.IsPrincipal {
			principals++
			assert.Equal(t, second.ID, c.ID)
		}
	}
	assert.Equal(t, 1, principals)

	// The partial unique index rejects a second principal written behind the
	// service's back.
	err = e.db.DB.Exec("UPDATE contacts SET is_principal = TRUE WHERE id = ?", first.ID).Error
	assert.Error(t, err)
}

func TestPostgres_DeletingAffaireOrphansContacts(t *testing.T) {
	e := newPgEnv(t)
	affaireID := e.affaire(t, "A24-003", nil)

	c, err := e.contacts.CreateContact(e.ctx, affaireID, affaireapp.ContactRequest{Nom: "Petit", IsPrincipal: true})
	require.NoError(t, err)

	require.NoError(t, e.affaires.Delete(e.ctx, affaireID))

	got, err := e.contacts.GetByID(e.ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AffaireID)
	assert.False(t, got.IsPrincipal)
}

func TestPostgres_ForeignKeyBackstop(t *testing.T) {
	e := newPgEnv(t)
	affaireID := e.affaire(t, "A24-004", nil)

	_, err := e.invoices.Create(e.ctx, financeapp.InvoiceRequest{
		AffaireID:     affaireID,
		Date:          "2024-03-01",
		InvoiceNumber: "F24-100",
		AmountHT:      amountHT("100"),
	})
	require.NoError(t, err)

	err = e.db.DB.Exec("DELETE FROM affaires WHERE id = ?", affaireID).Error
	assert.Error(t, err, "invoices must keep their affaire")
}
