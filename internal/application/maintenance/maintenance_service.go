// Package maintenance holds the offline data-repair commands. Each command
// runs in a single transaction: it either fully applies or leaves the
// database untouched.
package maintenance

import (
	"context"
	"strings"

	appfinance "github.com/gestion/backend/internal/application/finance"
	appshared "github.com/gestion/backend/internal/application/shared"
	"github.com/gestion/backend/internal/domain/affaire"
	"github.com/gestion/backend/internal/domain/finance"
	"github.com/gestion/backend/internal/domain/partner"
	"github.com/gestion/backend/internal/domain/shared"
	"github.com/gestion/backend/internal/infrastructure/logger"
	"github.com/gestion/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Command names accepted by Run
const (
	CommandRefreshStatuses      = "refresh-statuses"
	CommandBackfillNames        = "backfill-names"
	CommandAttachOrphanContacts = "attach-orphan-contacts"
)

// Commands lists the available commands
var Commands = []string{CommandRefreshStatuses, CommandBackfillNames, CommandAttachOrphanContacts}

// Report tells how many rows a command looked at and how many it changed
type Report struct {
	Command  string `json:"command"`
	Examined int    `json:"examined"`
	Changed  int    `json:"changed"`
}

// Options carries the command arguments
type Options struct {
	// AffaireNumber is the target of attach-orphan-contacts
	AffaireNumber string
}

// Service runs the maintenance commands
type Service struct {
	tx    appshared.TransactionScope
	clock shared.Clock
}

// NewService creates a new maintenance Service
func NewService(tx appshared.TransactionScope, clock shared.Clock) *Service {
	return &Service{tx: tx, clock: clock}
}

// Run dispatches a command by name
func (s *Service) Run(ctx context.Context, command string, opts Options) (*Report, error) {
	switch command {
	case CommandRefreshStatuses:
		return s.RefreshStatuses(ctx)
	case CommandBackfillNames:
		return s.BackfillNames(ctx)
	case CommandAttachOrphanContacts:
		return s.AttachOrphanContacts(ctx, opts.AffaireNumber)
	default:
		return nil, shared.NewDomainError("INVALID_COMMAND",
			"Unknown command "+command+" (expected one of: "+strings.Join(Commands, ", ")+")")
	}
}

// RefreshStatuses recomputes the status of every invoice against today
func (s *Service) RefreshStatuses(ctx context.Context) (*Report, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "maintenance", CommandRefreshStatuses)
	defer span.End()

	report := &Report{Command: CommandRefreshStatuses}
	today := shared.Today(s.clock)
	err := s.tx.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		*report = Report{Command: CommandRefreshStatuses}
		invoices, err := repos.Invoices().FindAll(ctx, finance.InvoiceFilter{})
		if err != nil {
			return err
		}
		for i := range invoices {
			report.Examined++
			inv, err := repos.Invoices().FindByIDForUpdate(ctx, invoices[i].ID)
			if err != nil {
				return err
			}
			changed, err := appfinance.RefreshStatus(ctx, repos, inv, today)
			if err != nil {
				return err
			}
			if changed {
				report.Changed++
			}
		}
		return nil
	})
	return s.finish(ctx, span, report, err)
}

// BackfillNames rewrites the client and affaire snapshots of affaires and
// invoices from their live relations. A snapshot whose client is gone is
// kept, or set to the deleted-client placeholder when empty.
func (s *Service) BackfillNames(ctx context.Context) (*Report, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "maintenance", CommandBackfillNames)
	defer span.End()

	report := &Report{Command: CommandBackfillNames}
	err := s.tx.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		*report = Report{Command: CommandBackfillNames}

		affaires, err := repos.Affaires().FindAll(ctx, shared.DefaultFilter())
		if err != nil {
			return err
		}
		invoices, err := repos.Invoices().FindAll(ctx, finance.InvoiceFilter{})
		if err != nil {
			return err
		}
		clients, err := loadClients(ctx, repos, affaires, invoices)
		if err != nil {
			return err
		}

		numbers := make(map[uuid.UUID]string, len(affaires))
		for i := range affaires {
			a := &affaires[i]
			numbers[a.ID] = a.AffaireNumber
			report.Examined++

			name := partner.DisplayName(lookup(clients, a.ClientID), a.ClientEntityName)
			if name == a.ClientEntityName {
				continue
			}
			a.ClientEntityName = name
			a.Touch()
			if err := repos.Affaires().Save(ctx, a); err != nil {
				return err
			}
			report.Changed++
		}

		for i := range invoices {
			inv := &invoices[i]
			report.Examined++

			name := partner.DisplayName(lookup(clients, inv.ClientID), inv.ClientEntityName)
			number, ok := numbers[inv.AffaireID]
			if !ok {
				number = inv.AffaireNumber
			}
			if name == inv.ClientEntityName && number == inv.AffaireNumber {
				continue
			}
			inv.ClientEntityName = name
			inv.AffaireNumber = number
			inv.Touch()
			if err := repos.Invoices().Save(ctx, inv); err != nil {
				return err
			}
			report.Changed++
		}
		return nil
	})
	return s.finish(ctx, span, report, err)
}

// AttachOrphanContacts moves every contact left without an affaire to the
// affaire with the given number. When that affaire has no principal the
// earliest orphan becomes principal.
func (s *Service) AttachOrphanContacts(ctx context.Context, affaireNumber string) (*Report, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "maintenance", CommandAttachOrphanContacts,
		"affaire_number", affaireNumber)
	defer span.End()

	affaireNumber = strings.TrimSpace(affaireNumber)
	if affaireNumber == "" {
		err := shared.NewDomainError("INVALID_INPUT", "An affaire number is required to attach orphan contacts")
		telemetry.RecordError(span, err)
		return nil, err
	}

	report := &Report{Command: CommandAttachOrphanContacts}
	err := s.tx.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		*report = Report{Command: CommandAttachOrphanContacts}

		target, err := repos.Affaires().FindByNumber(ctx, affaireNumber)
		if err != nil {
			return err
		}
		existing, err := repos.Contacts().FindByAffaire(ctx, target.ID)
		if err != nil {
			return err
		}
		orphans, err := repos.Contacts().FindOrphans(ctx)
		if err != nil {
			return err
		}

		needsPrincipal := affaire.Principal(existing) == nil
		for i := range orphans {
			c := &orphans[i]
			report.Examined++
			c.AttachTo(target.ID)
			c.MarkPrincipal(needsPrincipal && i == 0)
			if err := repos.Contacts().Save(ctx, c); err != nil {
				return err
			}
			report.Changed++
		}
		return nil
	})
	return s.finish(ctx, span, report, err)
}

func (s *Service) finish(ctx context.Context, span trace.Span, report *Report, err error) (*Report, error) {
	if err != nil {
		telemetry.RecordError(span, err)
		logger.L(ctx).Error("maintenance command rolled back",
			zap.String("command", report.Command),
			zap.Error(err))
		return nil, err
	}
	logger.L(ctx).Info("maintenance command finished",
		zap.String("command", report.Command),
		zap.Int("examined", report.Examined),
		zap.Int("changed", report.Changed))
	return report, nil
}

// loadClients fetches the live clients referenced by affaires and invoices
func loadClients(ctx context.Context, repos appshared.TransactionalRepositories, affaires []affaire.Affaire, invoices []finance.Invoice) (map[uuid.UUID]*partner.Client, error) {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	add := func(id *uuid.UUID) {
		if id == nil {
			return
		}
		if _, ok := seen[*id]; !ok {
			seen[*id] = struct{}{}
			ids = append(ids, *id)
		}
	}
	for i := range affaires {
		add(affaires[i].ClientID)
	}
	for i := range invoices {
		add(invoices[i].ClientID)
	}

	result := make(map[uuid.UUID]*partner.Client, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	clients, err := repos.Clients().FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		result[clients[i].ID] = &clients[i]
	}
	return result, nil
}

func lookup(clients map[uuid.UUID]*partner.Client, id *uuid.UUID) *partner.Client {
	if id == nil {
		return nil
	}
	return clients[*id]
}
