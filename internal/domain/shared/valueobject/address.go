package valueobject

import (
	"errors"
	"strings"
	"unicode"
)

// Address is a value object representing a French postal address
// It is immutable - all operations return new Address instances
type Address struct {
	street  string
	zipCode string
	city    string
}

// NewAddress creates a new Address. All parts are optional, but a zip code,
// when given, must be five digits.
func NewAddress(street, zipCode, city string) (Address, error) {
	street = strings.TrimSpace(street)
	zipCode = strings.TrimSpace(zipCode)
	city = strings.TrimSpace(city)

	if zipCode != "" {
		if err := validateZipCode(zipCode); err != nil {
			return Address{}, err
		}
	}
	if len([]rune(city)) > 100 {
		return Address{}, errors.New("city cannot exceed 100 characters")
	}

	return Address{street: street, zipCode: zipCode, city: city}, nil
}

// RestoreAddress rebuilds an address from stored values without validation
func RestoreAddress(street, zipCode, city string) Address {
	return Address{street: street, zipCode: zipCode, city: city}
}

// EmptyAddress returns an address with no parts set
func EmptyAddress() Address {
	return Address{}
}

// Street returns the street line
func (a Address) Street() string {
	return a.street
}

// ZipCode returns the postal code
func (a Address) ZipCode() string {
	return a.zipCode
}

// City returns the city
func (a Address) City() string {
	return a.city
}

// IsEmpty returns true if no part of the address is set
func (a Address) IsEmpty() bool {
	return a.street == "" && a.zipCode == "" && a.city == ""
}

// FullAddress renders the address on one line: "12 rue X, 75001 Paris"
func (a Address) FullAddress() string {
	locality := strings.TrimSpace(a.zipCode + " " + a.city)
	switch {
	case a.street == "":
		return locality
	case locality == "":
		return a.street
	default:
		return a.street + ", " + locality
	}
}

// String implements fmt.Stringer
func (a Address) String() string {
	return a.FullAddress()
}

// Equals returns true if both addresses are equal
func (a Address) Equals(other Address) bool {
	return a.street == other.street && a.zipCode == other.zipCode && a.city == other.city
}

func validateZipCode(zip string) error {
	if len(zip) != 5 {
		return errors.New("zip code must be 5 digits")
	}
	for _, r := range zip {
		if !unicode.IsDigit(r) {
			return errors.New("zip code must be 5 digits")
		}
	}
	return nil
}
