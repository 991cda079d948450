package importapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	appfinance "github.com/gestion/backend/internal/application/finance"
	appshared "github.com/gestion/backend/internal/application/shared"
	"github.com/gestion/backend/internal/domain/affaire"
	"github.com/gestion/backend/internal/domain/finance"
	"github.com/gestion/backend/internal/domain/partner"
	"github.com/gestion/backend/internal/domain/shared"
	"github.com/gestion/backend/internal/infrastructure/logger"
	"github.com/gestion/backend/internal/infrastructure/telemetry"
	"github.com/gestion/backend/internal/infrastructure/xlsximport"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxReportedErrors caps the per-row errors kept in a report
const maxReportedErrors = 500

// errRowSkipped marks a row already recorded in the error collection
var errRowSkipped = errors.New("row skipped")

// InvoiceImportService loads invoices from an xlsx workbook. Each row is
// written in its own transaction so a bad row never undoes the others.
type InvoiceImportService struct {
	tx    appshared.TransactionScope
	clock shared.Clock
}

// NewInvoiceImportService creates a new InvoiceImportService
func NewInvoiceImportService(tx appshared.TransactionScope, clock shared.Clock) *InvoiceImportService {
	return &InvoiceImportService{tx: tx, clock: clock}
}

// ImportFile imports the workbook at path. An empty sheet name selects
// the first sheet.
func (s *InvoiceImportService) ImportFile(ctx context.Context, path, sheet string) (*ImportReport, error) {
	r, err := xlsximport.Open(path, sheetOption(sheet)...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return s.run(ctx, r)
}

// Import imports a workbook read from src
func (s *InvoiceImportService) Import(ctx context.Context, src io.Reader, sheet string) (*ImportReport, error) {
	r, err := xlsximport.NewReader(src, sheetOption(sheet)...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return s.run(ctx, r)
}

func sheetOption(sheet string) []xlsximport.ReaderOption {
	if strings.TrimSpace(sheet) == "" {
		return nil
	}
	return []xlsximport.ReaderOption{xlsximport.WithSheet(sheet)}
}

func (s *InvoiceImportService) run(ctx context.Context, r *xlsximport.Reader) (*ImportReport, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "import", "invoices")
	defer span.End()

	if err := r.ParseHeader(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if missing := r.ValidateHeaders(RequiredColumns); len(missing) > 0 {
		err := fmt.Errorf("%w: %s", xlsximport.ErrMissingHeader, strings.Join(missing, ", "))
		telemetry.RecordError(span, err)
		return nil, err
	}

	log := logger.L(ctx).With(zap.String("sheet", r.Sheet()))
	log.Info("invoice import started")

	report := &ImportReport{}
	errs := xlsximport.NewRowErrors(maxReportedErrors)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := r.ReadRow()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		if row.IsEmpty() {
			continue
		}
		report.RowsRead++

		parsed, ok := parseRow(row, errs)
		if !ok {
			report.Skipped++
			log.Warn("row skipped", zap.Int("line", row.LineNumber), zap.String("reason", "invalid value"))
			continue
		}

		outcome, err := s.importRow(ctx, parsed, errs)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			report.Skipped++
			if !errors.Is(err, errRowSkipped) {
				errs.Rejected(parsed.line, err)
			}
			log.Warn("row skipped",
				zap.Int("line", parsed.line),
				zap.String("invoice_number", parsed.invoiceNumber),
				zap.Error(err))
			continue
		}

		report.Imported++
		if outcome.clientCreated {
			report.ClientsCreated++
		}
		if outcome.affaireCreated {
			report.AffairesCreated++
		}
		if outcome.paymentCreated {
			report.PaymentsCreated++
		}
	}

	report.Errors = errs.List()
	report.IsTruncated = errs.Truncated()
	report.TotalErrors = errs.Total()

	telemetry.SetAttributes(span, telemetry.SpanAttrRows, report.RowsRead)
	log.Info("invoice import finished",
		zap.Int("rows_read", report.RowsRead),
		zap.Int("imported", report.Imported),
		zap.Int("skipped", report.Skipped),
		zap.Int("clients_created", report.ClientsCreated),
		zap.Int("affaires_created", report.AffairesCreated),
		zap.Int("payments_created", report.PaymentsCreated))
	return report, nil
}

// parseRow converts the raw cells of a row. Problems are added to errs.
func parseRow(row *xlsximport.Row, errs *xlsximport.RowErrors) (*invoiceRow, bool) {
	ok := true
	parsed := &invoiceRow{
		line:               row.LineNumber,
		clientName:         row.Get(ColClient),
		affaireNumber:      row.Get(ColAffaireNumber),
		affaireDescription: row.Get(ColAffaireDescription),
		invoiceNumber:      row.Get(ColInvoiceNumber),
		invoiceType:        row.Get(ColType),
	}

	for col, value := range map[string]string{
		ColClient:        parsed.clientName,
		ColAffaireNumber: parsed.affaireNumber,
		ColInvoiceNumber: parsed.invoiceNumber,
	} {
		if value == "" {
			errs.Required(row.LineNumber, col)
			ok = false
		}
	}

	amount, err := xlsximport.ParseCurrency(row.Get(ColAmountHT))
	if err != nil {
		errs.Malformed(row.LineNumber, ColAmountHT, "montant", row.Get(ColAmountHT))
		ok = false
	}
	parsed.amountHT = amount.Round(2)

	invoiceDate, err := xlsximport.ParseDate(row.Get(ColInvoiceDate))
	switch {
	case err != nil:
		errs.Malformed(row.LineNumber, ColInvoiceDate, "jj/mm/aaaa", row.Get(ColInvoiceDate))
		ok = false
	case invoiceDate == nil:
		errs.Required(row.LineNumber, ColInvoiceDate)
		ok = false
	default:
		parsed.invoiceDate = *invoiceDate
	}

	paymentDate, err := xlsximport.ParseDate(row.Get(ColPaymentDate))
	if err != nil {
		errs.Malformed(row.LineNumber, ColPaymentDate, "jj/mm/aaaa", row.Get(ColPaymentDate))
		ok = false
	}
	parsed.paymentDate = paymentDate

	if raw := row.Get(ColPaymentAmount); raw != "" {
		paid, err := xlsximport.ParseCurrency(raw)
		if err != nil {
			errs.Malformed(row.LineNumber, ColPaymentAmount, "montant", raw)
			ok = false
		}
		parsed.paymentAmount = paid.Round(2)
		parsed.hasPaymentAmount = true
	}

	return parsed, ok
}

type rowOutcome struct {
	clientCreated  bool
	affaireCreated bool
	paymentCreated bool
}

func (s *InvoiceImportService) importRow(ctx context.Context, row *invoiceRow, errs *xlsximport.RowErrors) (rowOutcome, error) {
	var outcome rowOutcome
	err := s.tx.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		outcome = rowOutcome{}

		if _, err := repos.Invoices().FindByNumber(ctx, row.invoiceNumber); err == nil {
			errs.Duplicate(row.line, ColInvoiceNumber, row.invoiceNumber)
			return errRowSkipped
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		client, created, err := getOrCreateClient(ctx, repos, row.clientName)
		if err != nil {
			return err
		}
		outcome.clientCreated = created

		aff, created, err := getOrCreateAffaire(ctx, repos, row, client)
		if err != nil {
			return err
		}
		outcome.affaireCreated = created

		invoiceType, err := finance.ParseInvoiceType(row.invoiceType)
		if err != nil {
			return err
		}
		inv, err := finance.NewInvoice(aff.ID, finance.InvoiceDetails{
			Date:          row.invoiceDate,
			Type:          invoiceType,
			InvoiceNumber: row.invoiceNumber,
			AmountHT:      row.amountHT,
			VATRate:       finance.DefaultVATRate,
		})
		if err != nil {
			return err
		}
		inv.SetAffaire(aff.ID, aff.AffaireNumber)
		inv.SetClient(client)

		today := shared.Today(s.clock)
		inv.RecomputeStatus(decimal.Zero, today)
		if err := repos.Invoices().Save(ctx, inv); err != nil {
			return err
		}

		if row.paymentDate != nil && row.hasPaymentAmount && !row.paymentAmount.IsZero() {
			payment, err := finance.NewPayment(inv.ID, *row.paymentDate, row.paymentAmount, finance.PaymentMethodVirement)
			if err != nil {
				return err
			}
			if err := repos.Payments().Save(ctx, payment); err != nil {
				return err
			}
			if _, err := appfinance.RefreshStatus(ctx, repos, inv, today); err != nil {
				return err
			}
			outcome.paymentCreated = true
		}
		return nil
	})
	return outcome, err
}

func getOrCreateClient(ctx context.Context, repos appshared.TransactionalRepositories, name string) (*partner.Client, bool, error) {
	client, err := repos.Clients().FindByEntityName(ctx, name)
	if err == nil {
		return client, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}
	client, err = partner.NewClient(name)
	if err != nil {
		return nil, false, err
	}
	if err := repos.Clients().Save(ctx, client); err != nil {
		return nil, false, err
	}
	logger.L(ctx).Info("client created", zap.String("entity_name", client.EntityName))
	return client, true, nil
}

// getOrCreateAffaire looks the affaire up by number. A new affaire starts
// with a zero budget and the row's client; an existing one is left as is.
func getOrCreateAffaire(ctx context.Context, repos appshared.TransactionalRepositories, row *invoiceRow, client *partner.Client) (*affaire.Affaire, bool, error) {
	aff, err := repos.Affaires().FindByNumber(ctx, row.affaireNumber)
	if err == nil {
		return aff, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}
	aff, err = affaire.NewAffaire(row.affaireNumber, row.affaireDescription, decimal.Zero)
	if err != nil {
		return nil, false, err
	}
	aff.AssignClient(client)
	if err := repos.Affaires().Save(ctx, aff); err != nil {
		return nil, false, err
	}
	logger.L(ctx).Info("affaire created", zap.String("affaire_number", aff.AffaireNumber))
	return aff, true, nil
}
