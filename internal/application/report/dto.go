package report

import "github.com/shopspring/decimal"

// DashboardFilter restricts the dashboard totals to an invoice date range
type DashboardFilter struct {
	DateDebut string `form:"date_debut" binding:"omitempty,datetime=2006-01-02"`
	DateFin   string `form:"date_fin" binding:"omitempty,datetime=2006-01-02"`
}

// StatusCount is the number of invoices in one status
type StatusCount struct {
	Statut string `json:"statut"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
}

// DashboardResponse holds the headline figures
type DashboardResponse struct {
	DateDebut               string          `json:"date_debut,omitempty"`
	DateFin                 string          `json:"date_fin,omitempty"`
	TotalFacturation        decimal.Decimal `json:"total_facturation"`
	TotalFacturationDisplay string          `json:"total_facturation_display"`
	TotalEncaisse           decimal.Decimal `json:"total_encaisse"`
	TotalEncaisseDisplay    string          `json:"total_encaisse_display"`
	TotalRestantDu          decimal.Decimal `json:"total_restant_du"`
	TotalRestantDuDisplay   string          `json:"total_restant_du_display"`
	InvoiceCount            int             `json:"invoice_count"`
	StatusCounts            []StatusCount   `json:"status_counts"`
	ClientCount             int64           `json:"client_count"`
	AffaireCount            int64           `json:"affaire_count"`
}

// MonthlyRevenue is one bucket of the revenue series
type MonthlyRevenue struct {
	Month             int             `json:"month"`
	Label             string          `json:"label"`
	Amount            decimal.Decimal `json:"amount"`
	AmountDisplay     string          `json:"amount_display"`
	Cumulative        decimal.Decimal `json:"cumulative"`
	CumulativeDisplay string          `json:"cumulative_display"`
}

// RevenueResponse is the monthly HT revenue of a year
type RevenueResponse struct {
	Year         int              `json:"year"`
	Months       []MonthlyRevenue `json:"months"`
	Total        decimal.Decimal  `json:"total"`
	TotalDisplay string           `json:"total_display"`
}
