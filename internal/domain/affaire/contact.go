package affaire

import (
	"strings"
	"unicode/utf8"

	"github.com/gestion/backend/internal/domain/partner"
	"github.com/gestion/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UnnamedContact is displayed for contacts with neither name nor email
const UnnamedContact = "Contact sans nom"

// ContactDetails carries the editable fields of a contact
type ContactDetails struct {
	Nom         string
	Prenom      string
	Fonction    string
	PhoneNumber string
	Email       string
	IsPrincipal bool
}

// Contact is a person attached to an affaire
type Contact struct {
	shared.BaseEntity
	AffaireID   *uuid.UUID
	Nom         string
	Prenom      string
	Fonction    string
	PhoneNumber string
	Email       string
	IsPrincipal bool
}

// NewContact creates a contact for an affaire. The principal flag is taken as
// requested; the contact service decides the final value.
func NewContact(affaireID uuid.UUID, details ContactDetails) (*Contact, error) {
	details, err := normalizeDetails(details)
	if err != nil {
		return nil, err
	}
	c := &Contact{
		BaseEntity: shared.NewBaseEntity(),
		AffaireID:  &affaireID,
	}
	c.apply(details)
	return c, nil
}

// Update replaces the editable fields
func (c *Contact) Update(details ContactDetails) error {
	details, err := normalizeDetails(details)
	if err != nil {
		return err
	}
	c.apply(details)
	c.Touch()
	return nil
}

// MarkPrincipal sets the principal flag
func (c *Contact) MarkPrincipal(principal bool) {
	c.IsPrincipal = principal
	c.Touch()
}

// AttachTo moves the contact to another affaire
func (c *Contact) AttachTo(affaireID uuid.UUID) {
	c.AffaireID = &affaireID
	c.Touch()
}

// DisplayName returns "nom prenom", falling back to the email and then to a
// placeholder, with " - fonction" appended when set.
func (c *Contact) DisplayName() string {
	name := strings.TrimSpace(c.Nom + " " + c.Prenom)
	if name == "" {
		name = c.Email
	}
	if name == "" {
		name = UnnamedContact
	}
	if c.Fonction != "" {
		name += " - " + c.Fonction
	}
	return name
}

func (c *Contact) apply(d ContactDetails) {
	c.Nom = d.Nom
	c.Prenom = d.Prenom
	c.Fonction = d.Fonction
	c.PhoneNumber = d.PhoneNumber
	c.Email = d.Email
	c.IsPrincipal = d.IsPrincipal
}

func normalizeDetails(d ContactDetails) (ContactDetails, error) {
	d.Nom = strings.TrimSpace(d.Nom)
	d.Prenom = strings.TrimSpace(d.Prenom)
	d.Fonction = strings.TrimSpace(d.Fonction)
	d.PhoneNumber = partner.NormalizePhone(d.PhoneNumber)
	d.Email = strings.TrimSpace(d.Email)

	fields := []struct{ name, value string }{
		{"nom", d.Nom},
		{"prenom", d.Prenom},
		{"fonction", d.Fonction},
	}
	for _, f := range fields {
		if utf8.RuneCountInString(f.value) > 100 {
			return d, shared.NewDomainError("INVALID_CONTACT", f.name+" cannot exceed 100 characters")
		}
	}
	if err := partner.ValidatePhone(d.PhoneNumber); err != nil {
		return d, err
	}
	if err := partner.ValidateEmail(d.Email); err != nil {
		return d, err
	}
	return d, nil
}
