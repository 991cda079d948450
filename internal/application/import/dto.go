package importapp

import (
	"time"

	"github.com/gestion/backend/internal/infrastructure/xlsximport"
	"github.com/shopspring/decimal"
)

// Column headers of the invoice workbook
const (
	ColClient             = "CLIENT"
	ColAffaireNumber      = "N° Affaire"
	ColAffaireDescription = "Designation affaire"
	ColInvoiceNumber      = "N° facture"
	ColType               = "Type"
	ColAmountHT           = "Montant HT"
	ColAmountTVA          = "Montant TVA"
	ColInvoiceDate        = "Date Facture"
	ColPaymentDate        = "Date encaissement"
	ColPaymentAmount      = "Montant encaissé €TTC"
)

// RequiredColumns lists the headers an invoice workbook must carry
var RequiredColumns = []string{
	ColClient,
	ColAffaireNumber,
	ColAffaireDescription,
	ColInvoiceNumber,
	ColType,
	ColAmountHT,
	ColAmountTVA,
	ColInvoiceDate,
	ColPaymentDate,
	ColPaymentAmount,
}

// ImportReport summarizes an invoice import run
type ImportReport struct {
	RowsRead        int                   `json:"rows_read"`
	Imported        int                   `json:"imported"`
	Skipped         int                   `json:"skipped"`
	ClientsCreated  int                   `json:"clients_created"`
	AffairesCreated int                   `json:"affaires_created"`
	PaymentsCreated int                   `json:"payments_created"`
	Errors          []xlsximport.RowError `json:"errors,omitempty"`
	IsTruncated     bool                  `json:"is_truncated,omitempty"`
	TotalErrors     int                   `json:"total_errors,omitempty"`
}

// invoiceRow is one parsed line of the workbook
type invoiceRow struct {
	line               int
	clientName         string
	affaireNumber      string
	affaireDescription string
	invoiceNumber      string
	invoiceType        string
	amountHT           decimal.Decimal
	invoiceDate        time.Time
	paymentDate        *time.Time
	paymentAmount      decimal.Decimal
	hasPaymentAmount   bool
}
