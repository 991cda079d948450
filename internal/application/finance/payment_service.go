package finance

import (
	"context"

	appshared "github.com/gestion/backend/internal/application/shared"
	"github.com/gestion/backend/internal/domain/finance"
	"github.com/gestion/backend/internal/domain/shared"
	"github.com/gestion/backend/internal/infrastructure/logger"
	"github.com/gestion/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService records payments against invoices. Every write recomputes
// the invoice status in the same transaction.
type PaymentService struct {
	repos appshared.TransactionalRepositories
	tx    appshared.TransactionScope
	clock shared.Clock
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(repos appshared.TransactionalRepositories, tx appshared.TransactionScope, clock shared.Clock) *PaymentService {
	return &PaymentService{repos: repos, tx: tx, clock: clock}
}

// ListByInvoice returns the payments of an invoice ordered by date
func (s *PaymentService) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]PaymentResponse, error) {
	if _, err := s.repos.Invoices().FindByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	payments, err := s.repos.Payments().FindByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return ToPaymentResponses(payments), nil
}

// RecordPayment adds a payment to an invoice that is not cancelled
func (s *PaymentService) RecordPayment(ctx context.Context, invoiceID uuid.UUID, req PaymentRequest) (*PaymentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "record",
		telemetry.SpanAttrInvoiceID, invoiceID.String(),
		telemetry.SpanAttrAmount, req.Amount.String())
	defer span.End()

	date, err := appshared.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	var resp PaymentResponse
	err = s.tx.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		inv, err := repos.Invoices().FindByIDForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if err := inv.CanRecordPayment(); err != nil {
			return err
		}
		payment, err := finance.NewPayment(inv.ID, date, req.Amount, req.PaymentMethod)
		if err != nil {
			return err
		}
		if err := repos.Payments().Save(ctx, payment); err != nil {
			return err
		}
		if _, err := RefreshStatus(ctx, repos, inv, shared.Today(s.clock)); err != nil {
			return err
		}
		resp = ToPaymentResponse(payment)
		resp.InvoiceStatut = string(inv.Status)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.L(ctx).Info("payment recorded",
		zap.String("payment_id", resp.ID.String()),
		zap.String("invoice_id", invoiceID.String()),
		zap.String("amount", resp.Amount.String()),
		zap.String("payment_method", resp.PaymentMethod),
		zap.String("invoice_statut", resp.InvoiceStatut))
	return &resp, nil
}

// UpdatePayment replaces the fields of a payment
func (s *PaymentService) UpdatePayment(ctx context.Context, id uuid.UUID, req PaymentRequest) (*PaymentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "update")
	defer span.End()

	date, err := appshared.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	var resp PaymentResponse
	err = s.tx.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		payment, err := repos.Payments().FindByID(ctx, id)
		if err != nil {
			return err
		}
		inv, err := repos.Invoices().FindByIDForUpdate(ctx, payment.InvoiceID)
		if err != nil {
			return err
		}
		if err := inv.CanRecordPayment(); err != nil {
			return err
		}
		if err := payment.Update(date, req.Amount, req.PaymentMethod); err != nil {
			return err
		}
		if err := repos.Payments().Save(ctx, payment); err != nil {
			return err
		}
		if _, err := RefreshStatus(ctx, repos, inv, shared.Today(s.clock)); err != nil {
			return err
		}
		resp = ToPaymentResponse(payment)
		resp.InvoiceStatut = string(inv.Status)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.L(ctx).Info("payment updated",
		zap.String("payment_id", id.String()),
		zap.String("amount", resp.Amount.String()),
		zap.String("invoice_statut", resp.InvoiceStatut))
	return &resp, nil
}

// DeletePayment removes a payment and recomputes the invoice status.
// A cancelled invoice stays cancelled.
func (s *PaymentService) DeletePayment(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "delete")
	defer span.End()

	var status finance.InvoiceStatus
	err := s.tx.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		payment, err := repos.Payments().FindByID(ctx, id)
		if err != nil {
			return err
		}
		inv, err := repos.Invoices().FindByIDForUpdate(ctx, payment.InvoiceID)
		if err != nil {
			return err
		}
		if err := repos.Payments().Delete(ctx, id); err != nil {
			return err
		}
		if _, err := RefreshStatus(ctx, repos, inv, shared.Today(s.clock)); err != nil {
			return err
		}
		status = inv.Status
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	logger.L(ctx).Info("payment deleted",
		zap.String("payment_id", id.String()),
		zap.String("invoice_statut", string(status)))
	return nil
}
