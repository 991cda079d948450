package identity

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gestion/backend/internal/domain/partner"
	"github.com/gestion/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

// User is an account of the application. Users flagged as authors can be
// referenced by affaires and invoices.
type User struct {
	shared.BaseAggregateRoot
	Email        string
	FirstName    string
	LastName     string
	IsActive     bool
	IsStaff      bool
	IsAuthor     bool
	PasswordHash string
	DateJoined   time.Time
}

// NewUser creates an active user. password and confirm must match.
func NewUser(email, firstName, lastName, password, confirm string) (*User, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	u := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		IsActive:          true,
	}
	u.DateJoined = u.CreatedAt
	if err := u.SetName(firstName, lastName); err != nil {
		return nil, err
	}
	if err := u.SetPassword(password, confirm); err != nil {
		return nil, err
	}
	return u, nil
}

// SetName updates first and last name
func (u *User) SetName(firstName, lastName string) error {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if utf8.RuneCountInString(firstName) > 150 || utf8.RuneCountInString(lastName) > 150 {
		return shared.NewDomainError("INVALID_NAME", "Names cannot exceed 150 characters")
	}
	u.FirstName = firstName
	u.LastName = lastName
	u.Touch()
	return nil
}

// SetEmail changes the login email
func (u *User) SetEmail(email string) error {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return err
	}
	u.Email = email
	u.Touch()
	return nil
}

// SetPassword validates and hashes a new password
func (u *User) SetPassword(password, confirm string) error {
	if err := validatePassword(password, confirm); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.Touch()
	return nil
}

// SetFlags updates the active, staff and author flags
func (u *User) SetFlags(active, staff, author bool) {
	u.IsActive = active
	u.IsStaff = staff
	u.IsAuthor = author
	u.Touch()
	u.IncrementVersion()
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// CanAuthor reports whether the user may be referenced as an author
func (u *User) CanAuthor() error {
	if !u.IsActive || !u.IsAuthor {
		return shared.NewDomainError("INVALID_AUTHOR", "Author must be an active user flagged as author")
	}
	return nil
}

// DisplayName returns "first last", or the email when both are empty
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email is required")
	}
	return partner.ValidateEmail(email)
}

func validatePassword(password, confirm string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 6 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 bytes")
	}
	if password != confirm {
		return shared.NewDomainError("INVALID_PASSWORD", "Passwords do not match")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
