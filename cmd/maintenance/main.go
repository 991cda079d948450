// Command maintenance runs one-off data repairs. Every command runs in a
// single transaction.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gestion/backend/internal/application/maintenance"
	"github.com/gestion/backend/internal/domain/shared"
	"github.com/gestion/backend/internal/infrastructure/config"
	"github.com/gestion/backend/internal/infrastructure/logger"
	"github.com/gestion/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var (
		affaireNumber string
		logLevel      string
	)
	flag.StringVar(&affaireNumber, "affaire", "", "Target affaire number (attach-orphan-contacts)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		printUsage()
		os.Exit(2)
	}
	command := args[0]

	log, err := logger.New(logger.CLI(logLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.Open(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	ctx := logger.WithContext(context.Background(), log)
	svc := maintenance.NewService(persistence.NewGormTransactionScope(db.DB), shared.SystemClock{})
	report, err := svc.Run(ctx, command, maintenance.Options{AffaireNumber: affaireNumber})
	if closeErr := db.Close(); closeErr != nil {
		log.Warn("Error closing database", zap.Error(closeErr))
	}
	if err != nil {
		log.Error("Maintenance command failed", zap.String("command", command), zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}

	log.Info("Maintenance command finished",
		zap.String("command", report.Command),
		zap.Int("examined", report.Examined),
		zap.Int("changed", report.Changed),
	)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage:
  maintenance [flags] <command>

Commands:
  %s

Flags:
  -affaire string     Target affaire number (attach-orphan-contacts)
  -log-level string   Log level: debug, info, warn, error (default: info)
`, strings.Join(maintenance.Commands, "\n  "))
}
