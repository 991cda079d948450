package partner

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gestion/backend/internal/domain/shared"
	"github.com/gestion/backend/internal/domain/shared/valueobject"
)

// DeletedClientName is displayed on records whose client no longer exists and
// that carry no name snapshot.
const DeletedClientName = "Client supprimé"

// Client represents a customer company or person.
// It owns affaires but has no financial state of its own.
type Client struct {
	shared.BaseAggregateRoot
	EntityName  string
	Address     valueobject.Address
	Contact     string
	PhoneNumber string
	Email       string
}

// NewClient creates a new client
func NewClient(entityName string) (*Client, error) {
	entityName = strings.TrimSpace(entityName)
	if err := validateEntityName(entityName); err != nil {
		return nil, err
	}

	return &Client{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		EntityName:        entityName,
		Address:           valueobject.EmptyAddress(),
	}, nil
}

// Rename changes the client's entity name
func (c *Client) Rename(entityName string) error {
	entityName = strings.TrimSpace(entityName)
	if err := validateEntityName(entityName); err != nil {
		return err
	}
	c.EntityName = entityName
	c.Touch()
	c.IncrementVersion()
	return nil
}

// SetAddress sets the postal address
func (c *Client) SetAddress(street, zipCode, city string) error {
	addr, err := valueobject.NewAddress(street, zipCode, city)
	if err != nil {
		return shared.NewDomainError("INVALID_ADDRESS", err.Error())
	}
	c.Address = addr
	c.Touch()
	return nil
}

// SetContactInfo sets the free-text contact, phone number and email
func (c *Client) SetContactInfo(contact, phone, email string) error {
	contact = strings.TrimSpace(contact)
	phone = NormalizePhone(phone)
	email = strings.TrimSpace(email)

	if utf8.RuneCountInString(contact) > 100 {
		return shared.NewDomainError("INVALID_CONTACT", "Contact cannot exceed 100 characters")
	}
	if err := ValidatePhone(phone); err != nil {
		return err
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}

	c.Contact = contact
	c.PhoneNumber = phone
	c.Email = email
	c.Touch()
	return nil
}

// DisplayName returns the name to show for a client reference that may be
// gone: the live name when available, else the snapshot, else the
// deleted-client placeholder.
func DisplayName(live *Client, snapshot string) string {
	if live != nil {
		return live.EntityName
	}
	if strings.TrimSpace(snapshot) != "" {
		return snapshot
	}
	return DeletedClientName
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// NormalizePhone strips the spaces and dots commonly typed in French numbers
func NormalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", ".", "", " ", "").Replace(strings.TrimSpace(phone))
}

// ValidatePhone checks an already normalized phone number
func ValidatePhone(phone string) error {
	if len(phone) > 10 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 10 characters")
	}
	return nil
}

// ValidateEmail accepts an empty string or a single bare address
func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}
	if len(email) > 254 || !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validateEntityName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot exceed 100 characters")
	}
	return nil
}
