package affaire

import (
	"testing"

	"github.com/gestion/backend/internal/domain/partner"
	"github.com/gestion/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewAffaire(t *testing.T) {
	tests := []struct {
		name     string
		number   string
		desc     string
		budget   decimal.Decimal
		wantCode string
	}{
		{"valid", "AF-001", "Rénovation", dec("5000"), ""},
		{"zero budget", "AF-002", "", decimal.Zero, ""},
		{"empty number", " ", "x", dec("1"), "INVALID_AFFAIRE_NUMBER"},
		{"number too long", "AF-0000000001", "x", dec("1"), "INVALID_AFFAIRE_NUMBER"},
		{"negative budget", "AF-003", "x", dec("-1"), "INVALID_BUDGET"},
		{"three decimals", "AF-004", "x", dec("1.005"), "INVALID_BUDGET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAffaire(tt.number, tt.desc, tt.budget)
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.number, a.AffaireNumber)
				assert.Nil(t, a.ClientID)
				return
			}
			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.wantCode, de.Code)
		})
	}
}

func TestAffaire_ClientSnapshot(t *testing.T) {
	client, _ := partner.NewClient("ACME")
	a, _ := NewAffaire("AF-001", "", dec("100"))

	a.AssignClient(client)
	require.NotNil(t, a.ClientID)
	assert.Equal(t, client.ID, *a.ClientID)
	assert.Equal(t, "ACME", a.ClientEntityName)
	assert.Equal(t, "ACME", a.ClientDisplayName(client))

	t.Run("snapshot survives detach", func(t *testing.T) {
		a.DetachClient()
		assert.Nil(t, a.ClientID)
		assert.Equal(t, "ACME", a.ClientDisplayName(nil))
	})

	t.Run("placeholder without snapshot", func(t *testing.T) {
		a.AssignClient(nil)
		assert.Equal(t, partner.DeletedClientName, a.ClientDisplayName(nil))
	})
}

func TestComputeProgress(t *testing.T) {
	t.Run("budget 5000 invoiced 2000", func(t *testing.T) {
		p := ComputeProgress(dec("5000"), []decimal.Decimal{dec("2000")})
		assert.True(t, p.TotalFactureHT.Equal(dec("2000")))
		assert.True(t, p.ResteAFacturer.Equal(dec("3000")))
		assert.True(t, p.TauxAvancement.Equal(dec("40")), p.TauxAvancement.String())
	})

	t.Run("zero budget gives zero rate", func(t *testing.T) {
		p := ComputeProgress(decimal.Zero, []decimal.Decimal{dec("150.50")})
		assert.True(t, p.TauxAvancement.IsZero())
		assert.True(t, p.ResteAFacturer.Equal(dec("-150.50")))
	})

	t.Run("rest is exact with cents and credit notes", func(t *testing.T) {
		amounts := []decimal.Decimal{dec("0.10"), dec("0.20"), dec("-0.05")}
		p := ComputeProgress(dec("1.00"), amounts)
		assert.True(t, p.TotalFactureHT.Equal(dec("0.25")))
		assert.True(t, p.ResteAFacturer.Equal(p.Budget.Sub(p.TotalFactureHT)))
		assert.True(t, p.ResteAFacturer.Equal(dec("0.75")))
	})

	t.Run("no invoices", func(t *testing.T) {
		p := ComputeProgress(dec("100"), nil)
		assert.True(t, p.TotalFactureHT.IsZero())
		assert.True(t, p.ResteAFacturer.Equal(dec("100")))
	})
}

func TestTotalBudget(t *testing.T) {
	a1, _ := NewAffaire("A1", "", dec("1000.50"))
	a2, _ := NewAffaire("A2", "", dec("250.25"))
	assert.True(t, TotalBudget([]Affaire{*a1, *a2}).Equal(dec("1250.75")))
	assert.True(t, TotalBudget(nil).IsZero())
}
