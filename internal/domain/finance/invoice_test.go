package finance

import (
	"testing"
	"time"

	"github.com/gestion/backend/internal/domain/partner"
	"github.com/gestion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestInvoice(t *testing.T, amountHT string) *Invoice {
	t.Helper()
	inv, err := NewInvoice(uuid.New(), InvoiceDetails{
		Date:          date(2024, 3, 1),
		InvoiceNumber: "F-001",
		AmountHT:      dec(amountHT),
		VATRate:       DefaultVATRate,
	})
	require.NoError(t, err)
	return inv
}

func TestNewInvoice(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		inv := newTestInvoice(t, "1000.00")
		assert.Equal(t, InvoiceTypeFacture, inv.Type)
		assert.Equal(t, InvoiceStatusAPayer, inv.Status)
		assert.Equal(t, 1, inv.Version)
	})

	tests := []struct {
		name     string
		details  InvoiceDetails
		wantCode string
	}{
		{"missing number", InvoiceDetails{Date: date(2024, 1, 1)}, "INVALID_INVOICE_NUMBER"},
		{"number too long", InvoiceDetails{Date: date(2024, 1, 1), InvoiceNumber: "F-123456789"}, "INVALID_INVOICE_NUMBER"},
		{"missing date", InvoiceDetails{InvoiceNumber: "F1"}, "INVALID_DATE"},
		{"unknown type", InvoiceDetails{Date: date(2024, 1, 1), InvoiceNumber: "F1", Type: "devis"}, "INVALID_TYPE"},
		{"vat over 100", InvoiceDetails{Date: date(2024, 1, 1), InvoiceNumber: "F1", VATRate: dec("120")}, "INVALID_VAT_RATE"},
		{"sub-cent amount", InvoiceDetails{Date: date(2024, 1, 1), InvoiceNumber: "F1", AmountHT: dec("1.001")}, "INVALID_AMOUNT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInvoice(uuid.New(), tt.details)
			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.wantCode, de.Code)
		})
	}
}

func TestInvoice_DerivedAmounts(t *testing.T) {
	inv := newTestInvoice(t, "1000.00")

	assert.True(t, inv.AmountTTC().Equal(dec("1200")))
	assert.True(t, inv.AmountTVA().Equal(dec("200")))
	assert.Equal(t, date(2024, 3, 31), inv.DueDate())
	assert.True(t, inv.Balance(dec("600")).Equal(dec("600")))

	t.Run("ttc is exact before display rounding", func(t *testing.T) {
		inv := newTestInvoice(t, "0.05")
		inv.VATRate = dec("5.5")
		assert.True(t, inv.AmountTTC().Equal(dec("0.05275")), inv.AmountTTC().String())
	})

	t.Run("negative amounts", func(t *testing.T) {
		inv := newTestInvoice(t, "-100")
		assert.True(t, inv.AmountTTC().Equal(dec("-120")))
	})
}

func TestInvoice_DaysOverdue(t *testing.T) {
	inv := newTestInvoice(t, "100")
	assert.Equal(t, 0, inv.DaysOverdue(date(2024, 3, 15)))
	assert.Equal(t, 0, inv.DaysOverdue(date(2024, 3, 31)))
	assert.Equal(t, 5, inv.DaysOverdue(date(2024, 4, 5)))
}

func TestInvoice_RecomputeStatus(t *testing.T) {
	before := date(2024, 3, 10)
	after := date(2024, 5, 1)

	t.Run("partial then paid", func(t *testing.T) {
		inv := newTestInvoice(t, "1000")
		assert.True(t, inv.RecomputeStatus(dec("600"), before))
		assert.Equal(t, InvoiceStatusPartiellementPayee, inv.Status)
		assert.True(t, inv.RecomputeStatus(dec("1200"), before))
		assert.Equal(t, InvoiceStatusPayee, inv.Status)
		assert.False(t, inv.RecomputeStatus(dec("1200"), before))
	})

	t.Run("overpaid is paid", func(t *testing.T) {
		inv := newTestInvoice(t, "1000")
		inv.RecomputeStatus(dec("1500"), after)
		assert.Equal(t, InvoiceStatusPayee, inv.Status)
	})

	t.Run("late without payments", func(t *testing.T) {
		inv := newTestInvoice(t, "1000")
		inv.RecomputeStatus(decimal.Zero, after)
		assert.Equal(t, InvoiceStatusEnRetard, inv.Status)
	})

	t.Run("partial payment wins over lateness", func(t *testing.T) {
		inv := newTestInvoice(t, "1000")
		inv.RecomputeStatus(dec("10"), after)
		assert.Equal(t, InvoiceStatusPartiellementPayee, inv.Status)
	})

	t.Run("cancelled stays cancelled", func(t *testing.T) {
		inv := newTestInvoice(t, "1000")
		require.NoError(t, inv.Cancel())
		assert.False(t, inv.RecomputeStatus(dec("1200"), before))
		assert.Equal(t, InvoiceStatusAnnulee, inv.Status)
		assert.Error(t, inv.CanRecordPayment())
		assert.Error(t, inv.Cancel())
	})

	t.Run("credit note offset by negative payment", func(t *testing.T) {
		inv := newTestInvoice(t, "-100")
		inv.Type = InvoiceTypeAvoir
		inv.RecomputeStatus(dec("-120"), before)
		assert.Equal(t, InvoiceStatusPayee, inv.Status)
	})
}

func TestDeriveStatus(t *testing.T) {
	due := date(2024, 1, 31)
	tests := []struct {
		name  string
		ttc   string
		paid  string
		today time.Time
		want  InvoiceStatus
	}{
		{"exact payment", "1200", "1200", due, InvoiceStatusPayee},
		{"nothing paid before due", "1200", "0", due, InvoiceStatusAPayer},
		{"nothing paid after due", "1200", "0", due.AddDate(0, 0, 1), InvoiceStatusEnRetard},
		{"zero invoice", "0", "0", due.AddDate(0, 1, 0), InvoiceStatusPayee},
		{"credit note partially offset", "-120", "-20", due, InvoiceStatusPartiellementPayee},
		{"credit note unpaid late", "-120", "0", due.AddDate(0, 0, 2), InvoiceStatusEnRetard},
		{"refund exceeding payments", "1200", "-10", due, InvoiceStatusAPayer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(dec(tt.ttc), dec(tt.paid), due, tt.today))
		})
	}
}

func TestInvoice_ClientSnapshot(t *testing.T) {
	inv := newTestInvoice(t, "10")
	client, _ := partner.NewClient("ACME")
	inv.SetClient(client)
	assert.Equal(t, "ACME", inv.ClientEntityName)

	inv.SetClient(nil)
	assert.Nil(t, inv.ClientID)
	assert.Equal(t, "ACME", inv.ClientDisplayName(nil))
}

func TestParseInvoiceType(t *testing.T) {
	for in, want := range map[string]InvoiceType{
		"":          InvoiceTypeFacture,
		"Facture":   InvoiceTypeFacture,
		"AVOIR":     InvoiceTypeAvoir,
		"Pro forma": InvoiceTypeProforma,
		"proforma":  InvoiceTypeProforma,
	} {
		got, err := ParseInvoiceType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseInvoiceType("devis")
	assert.Error(t, err)
}
