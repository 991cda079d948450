package shared

import (
	"strings"
	"time"

	"github.com/gestion/backend/internal/domain/shared"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// ParseDate parses a yyyy-mm-dd calendar date
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_DATE", "Invalid date "+value+", expected YYYY-MM-DD")
	}
	return t, nil
}

// ParseOptionalDate parses a date that may be empty
func ParseOptionalDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDate renders a calendar date in the wire format
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
