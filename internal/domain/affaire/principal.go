package affaire

import (
	"github.com/gestion/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// An affaire with at least one contact has exactly one principal contact.
// The helpers below compute what has to change to keep that true; the
// contact service applies the result inside a transaction.

// Principal returns the principal contact among contacts, or nil
func Principal(contacts []Contact) *Contact {
	for i := range contacts {
		if contacts[i].IsPrincipal {
			return &contacts[i]
		}
	}
	return nil
}

// PrincipalForNew reports whether a contact added to an affaire that already
// holds existing contacts ends up principal.
func PrincipalForNew(existing []Contact, requested bool) bool {
	return requested || len(existing) == 0
}

// CanUnmark reports whether contact may stop being principal. The only
// principal of an affaire cannot be un-marked directly.
func CanUnmark(contact *Contact, siblings []Contact) error {
	if !contact.IsPrincipal {
		return nil
	}
	for i := range siblings {
		if siblings[i].ID != contact.ID && siblings[i].IsPrincipal {
			return nil
		}
	}
	return shared.NewDomainError("INVALID_STATE", "An affaire with contacts must keep a principal contact; mark another contact as principal instead")
}

// Successor picks the contact to promote when the principal identified by
// removedID goes away: the earliest created remaining contact.
func Successor(contacts []Contact, removedID uuid.UUID) *Contact {
	var next *Contact
	for i := range contacts {
		c := &contacts[i]
		if c.ID == removedID {
			continue
		}
		if next == nil || c.CreatedAt.Before(next.CreatedAt) {
			next = c
		}
	}
	return next
}

// ValidateBatch checks a batch submission of contacts for one affaire.
// The batch is rejected as a whole on the first violation.
func ValidateBatch(batch []ContactDetails) error {
	if len(batch) == 0 {
		return shared.NewDomainError("INVALID_INPUT", "At least one contact is required")
	}
	principals := 0
	for _, d := range batch {
		if d.IsPrincipal {
			principals++
		}
	}
	if principals > 1 {
		return shared.NewDomainError("INVALID_INPUT", "Only one contact can be principal")
	}
	return nil
}
