package finance

import (
	"context"
	"time"

	appshared "github.com/gestion/backend/internal/application/shared"
	"github.com/gestion/backend/internal/domain/finance"
	"github.com/gestion/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// recomputeStatus reloads the payments of inv and derives its status for
// today. The invoice is not saved.
func recomputeStatus(ctx context.Context, repos appshared.TransactionalRepositories, inv *finance.Invoice, today time.Time) (bool, error) {
	payments, err := repos.Payments().FindByInvoice(ctx, inv.ID)
	if err != nil {
		return false, err
	}
	previous := inv.Status
	changed := inv.RecomputeStatus(finance.SumPayments(payments), today)
	if changed {
		logger.L(ctx).Info("invoice status changed",
			zap.String("invoice_id", inv.ID.String()),
			zap.String("invoice_number", inv.InvoiceNumber),
			zap.String("from", string(previous)),
			zap.String("to", string(inv.Status)))
	}
	return changed, nil
}

// RefreshStatus recomputes the status of an invoice and stores it when it
// changed. Shared by the payment writes, the refresh endpoint and the
// maintenance command.
func RefreshStatus(ctx context.Context, repos appshared.TransactionalRepositories, inv *finance.Invoice, today time.Time) (bool, error) {
	changed, err := recomputeStatus(ctx, repos, inv, today)
	if err != nil || !changed {
		return false, err
	}
	inv.IncrementVersion()
	if err := repos.Invoices().SaveWithLock(ctx, inv); err != nil {
		return false, err
	}
	return true, nil
}
