package affaire

import (
	"strings"
	"unicode/utf8"

	"github.com/gestion/backend/internal/domain/partner"
	"github.com/gestion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Affaire is an engagement with a client, tracked against a budget.
// It is the aggregate root for its contacts and invoices.
type Affaire struct {
	shared.BaseAggregateRoot
	AffaireNumber      string
	AffaireDescription string
	Budget             decimal.Decimal
	ClientID           *uuid.UUID
	// ClientEntityName is the client's name as of the last write that set the
	// client. It survives deletion of the client.
	ClientEntityName string
	AuthorID         *uuid.UUID
}

// NewAffaire creates a new affaire without client
func NewAffaire(number, description string, budget decimal.Decimal) (*Affaire, error) {
	number = strings.TrimSpace(number)
	description = strings.TrimSpace(description)
	if err := validateAffaireNumber(number); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	if err := validateBudget(budget); err != nil {
		return nil, err
	}

	return &Affaire{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		AffaireNumber:      number,
		AffaireDescription: description,
		Budget:             budget,
	}, nil
}

// Update changes the number, description and budget
func (a *Affaire) Update(number, description string, budget decimal.Decimal) error {
	number = strings.TrimSpace(number)
	description = strings.TrimSpace(description)
	if err := validateAffaireNumber(number); err != nil {
		return err
	}
	if err := validateDescription(description); err != nil {
		return err
	}
	if err := validateBudget(budget); err != nil {
		return err
	}

	a.AffaireNumber = number
	a.AffaireDescription = description
	a.Budget = budget
	a.Touch()
	a.IncrementVersion()
	return nil
}

// AssignClient links the affaire to a client and snapshots its name.
// A nil client clears the link and the snapshot.
func (a *Affaire) AssignClient(client *partner.Client) {
	if client == nil {
		a.ClientID = nil
		a.ClientEntityName = ""
	} else {
		id := client.ID
		a.ClientID = &id
		a.ClientEntityName = client.EntityName
	}
	a.Touch()
}

// DetachClient drops the client link but keeps the name snapshot
func (a *Affaire) DetachClient() {
	a.ClientID = nil
	a.Touch()
}

// SetAuthor sets or clears the author reference
func (a *Affaire) SetAuthor(authorID *uuid.UUID) {
	a.AuthorID = authorID
	a.Touch()
}

// ClientDisplayName returns the name to show for the affaire's client
func (a *Affaire) ClientDisplayName(live *partner.Client) string {
	return partner.DisplayName(live, a.ClientEntityName)
}

// Progress computes the invoicing progress of the affaire from the HT amounts
// of its invoices.
func (a *Affaire) Progress(invoiceAmountsHT []decimal.Decimal) Progress {
	return ComputeProgress(a.Budget, invoiceAmountsHT)
}

func validateAffaireNumber(number string) error {
	if number == "" {
		return shared.NewDomainError("INVALID_AFFAIRE_NUMBER", "Affaire number cannot be empty")
	}
	if utf8.RuneCountInString(number) > 10 {
		return shared.NewDomainError("INVALID_AFFAIRE_NUMBER", "Affaire number cannot exceed 10 characters")
	}
	return nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > 200 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Affaire description cannot exceed 200 characters")
	}
	return nil
}

func validateBudget(budget decimal.Decimal) error {
	if budget.IsNegative() {
		return shared.NewDomainError("INVALID_BUDGET", "Budget cannot be negative")
	}
	if !budget.Equal(budget.Round(2)) {
		return shared.NewDomainError("INVALID_BUDGET", "Budget cannot have more than 2 decimal places")
	}
	return nil
}
