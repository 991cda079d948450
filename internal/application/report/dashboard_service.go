package report

import (
	"context"
	"time"

	appshared "github.com/gestion/backend/internal/application/shared"
	"github.com/gestion/backend/internal/domain/finance"
	"github.com/gestion/backend/internal/domain/shared"
	"github.com/gestion/backend/internal/domain/shared/valueobject"
	"github.com/gestion/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var monthLabels = [12]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// DashboardService computes the dashboard figures from current rows
type DashboardService struct {
	repos appshared.TransactionalRepositories
	clock shared.Clock
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(repos appshared.TransactionalRepositories, clock shared.Clock) *DashboardService {
	return &DashboardService{repos: repos, clock: clock}
}

// Summary returns totals over the invoices dated within the optional range
func (s *DashboardService) Summary(ctx context.Context, f DashboardFilter) (*DashboardResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "dashboard", "summary")
	defer span.End()

	var (
		filter finance.InvoiceFilter
		err    error
	)
	if filter.DateDebut, err = appshared.ParseOptionalDate(f.DateDebut); err != nil {
		return nil, err
	}
	if filter.DateFin, err = appshared.ParseOptionalDate(f.DateFin); err != nil {
		return nil, err
	}
	if filter.DateDebut != nil && filter.DateFin != nil && filter.DateFin.Before(*filter.DateDebut) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "date_fin must not be before date_debut")
	}

	invoices, err := s.repos.Invoices().FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	payments, err := s.repos.Payments().FindByInvoices(ctx, invoiceIDs(invoices))
	if err != nil {
		return nil, err
	}
	clients, err := s.repos.Clients().Count(ctx)
	if err != nil {
		return nil, err
	}
	affaires, err := s.repos.Affaires().Count(ctx)
	if err != nil {
		return nil, err
	}

	totals := computeTotals(invoices, finance.GroupPaymentsByInvoice(payments))
	resp := &DashboardResponse{
		DateDebut:               f.DateDebut,
		DateFin:                 f.DateFin,
		TotalFacturation:        totals.facturation,
		TotalFacturationDisplay: valueobject.FormatEUR(totals.facturation),
		TotalEncaisse:           totals.encaisse,
		TotalEncaisseDisplay:    valueobject.FormatEUR(totals.encaisse),
		TotalRestantDu:          totals.restantDu,
		TotalRestantDuDisplay:   valueobject.FormatEUR(totals.restantDu),
		InvoiceCount:            len(invoices),
		StatusCounts:            totals.statusCounts(),
		ClientCount:             clients,
		AffaireCount:            affaires,
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrRows, len(invoices))
	return resp, nil
}

// RevenueSeries returns the HT amount invoiced per month of year and its
// running total. A zero year means the current year.
func (s *DashboardService) RevenueSeries(ctx context.Context, year int) (*RevenueResponse, error) {
	if year == 0 {
		year = s.clock.Now().Year()
	}
	if year < 1900 || year > 9999 {
		return nil, shared.NewDomainError("INVALID_YEAR", "Year must be between 1900 and 9999")
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	invoices, err := s.repos.Invoices().FindAll(ctx, finance.InvoiceFilter{DateDebut: &start, DateFin: &end})
	if err != nil {
		return nil, err
	}

	var buckets [12]decimal.Decimal
	for i := range buckets {
		buckets[i] = decimal.Zero
	}
	for i := range invoices {
		m := invoices[i].Date.Month() - 1
		buckets[m] = buckets[m].Add(invoices[i].AmountHT)
	}

	resp := &RevenueResponse{Year: year, Months: make([]MonthlyRevenue, 12)}
	cumulative := decimal.Zero
	for i, amount := range buckets {
		cumulative = cumulative.Add(amount)
		resp.Months[i] = MonthlyRevenue{
			Month:             i + 1,
			Label:             monthLabels[i],
			Amount:            amount,
			AmountDisplay:     valueobject.FormatEUR(amount),
			Cumulative:        cumulative,
			CumulativeDisplay: valueobject.FormatEUR(cumulative),
		}
	}
	resp.Total = cumulative
	resp.TotalDisplay = valueobject.FormatEUR(cumulative)
	return resp, nil
}

type totals struct {
	facturation decimal.Decimal
	encaisse    decimal.Decimal
	restantDu   decimal.Decimal
	counts      map[finance.InvoiceStatus]int
}

func computeTotals(invoices []finance.Invoice, payments map[uuid.UUID][]finance.Payment) totals {
	t := totals{
		facturation: decimal.Zero,
		encaisse:    decimal.Zero,
		restantDu:   decimal.Zero,
		counts:      make(map[finance.InvoiceStatus]int),
	}
	for i := range invoices {
		inv := &invoices[i]
		paid := finance.SumPayments(payments[inv.ID])
		t.facturation = t.facturation.Add(inv.AmountHT)
		t.encaisse = t.encaisse.Add(paid)
		if inv.Status != finance.InvoiceStatusAnnulee {
			t.restantDu = t.restantDu.Add(inv.Balance(paid))
		}
		t.counts[inv.Status]++
	}
	return t
}

func (t totals) statusCounts() []StatusCount {
	out := make([]StatusCount, len(finance.AllInvoiceStatuses))
	for i, st := range finance.AllInvoiceStatuses {
		out[i] = StatusCount{Statut: string(st), Label: st.Label(), Count: t.counts[st]}
	}
	return out
}

func invoiceIDs(invoices []finance.Invoice) []uuid.UUID {
	ids := make([]uuid.UUID, len(invoices))
	for i := range invoices {
		ids[i] = invoices[i].ID
	}
	return ids
}
