// Command import-invoices loads a legacy invoice workbook into the database.
// Each row is imported in its own transaction; rows that fail are reported
// and skipped.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	importapp "github.com/gestion/backend/internal/application/import"
	"github.com/gestion/backend/internal/domain/shared"
	"github.com/gestion/backend/internal/infrastructure/config"
	"github.com/gestion/backend/internal/infrastructure/logger"
	"github.com/gestion/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var (
		file     string
		sheet    string
		logLevel string
	)
	flag.StringVar(&file, "file", "", "Path to the .xlsx workbook (required)")
	flag.StringVar(&sheet, "sheet", "", "Sheet name (default: first sheet)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	if file == "" {
		fmt.Fprintln(os.Stderr, "Usage: import-invoices -file <workbook.xlsx> [-sheet <name>]")
		os.Exit(2)
	}

	log, err := logger.New(logger.CLI(logLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	if err := run(log, file, sheet); err != nil {
		log.Error("Import failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.Logger, file, sheet string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := persistence.Open(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("Error closing database", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	svc := importapp.NewInvoiceImportService(persistence.NewGormTransactionScope(db.DB), shared.SystemClock{})

	log.Info("Importing invoices", zap.String("file", file), zap.String("sheet", sheet))
	report, err := svc.ImportFile(ctx, file, sheet)
	if err != nil {
		return err
	}

	for _, rowErr := range report.Errors {
		log.Warn("Row skipped",
			zap.Int("row", rowErr.Row),
			zap.String("column", rowErr.Column),
			zap.String("code", rowErr.Code),
			zap.String("message", rowErr.Message),
			zap.String("value", rowErr.Value),
		)
	}
	if report.IsTruncated {
		log.Warn("Error list truncated", zap.Int("total_errors", report.TotalErrors))
	}

	log.Info("Import finished",
		zap.Int("rows_read", report.RowsRead),
		zap.Int("imported", report.Imported),
		zap.Int("skipped", report.Skipped),
		zap.Int("clients_created", report.ClientsCreated),
		zap.Int("affaires_created", report.AffairesCreated),
		zap.Int("payments_created", report.PaymentsCreated),
	)
	return nil
}
