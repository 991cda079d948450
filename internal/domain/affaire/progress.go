package affaire

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Progress holds the derived invoicing figures of an affaire.
// Values are computed from current rows on every read.
type Progress struct {
	Budget         decimal.Decimal
	TotalFactureHT decimal.Decimal
	ResteAFacturer decimal.Decimal
	// TauxAvancement is a percentage, 0 when the budget is 0
	TauxAvancement decimal.Decimal
}

// ComputeProgress derives the invoicing figures for a budget.
// reste = budget - total exactly; taux = total / budget * 100.
func ComputeProgress(budget decimal.Decimal, invoiceAmountsHT []decimal.Decimal) Progress {
	total := decimal.Zero
	for _, amount := range invoiceAmountsHT {
		total = total.Add(amount)
	}

	taux := decimal.Zero
	if !budget.IsZero() {
		taux = total.Mul(hundred).Div(budget)
	}

	return Progress{
		Budget:         budget,
		TotalFactureHT: total,
		ResteAFacturer: budget.Sub(total),
		TauxAvancement: taux,
	}
}

// TotalBudget sums the budgets of a client's affaires
func TotalBudget(affaires []Affaire) decimal.Decimal {
	total := decimal.Zero
	for i := range affaires {
		total = total.Add(affaires[i].Budget)
	}
	return total
}
