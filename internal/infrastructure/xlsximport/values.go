package xlsximport

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ErrInvalidValue is wrapped by the value parsers
var ErrInvalidValue = errors.New("invalid value")

var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

var currencyStripper = strings.NewReplacer(
	"€", "",
	"EUR", "",
	" ", "",
	"\u00a0", "",
	"\u202f", "",
	"\t", "",
)

// ParseCurrency reads an amount written the French way ("1 234,56 €") or
// as a raw number. An empty cell is zero.
func ParseCurrency(value string) (decimal.Decimal, error) {
	s := currencyStripper.Replace(strings.TrimSpace(value))
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		// "1.234,56": dots group thousands, the comma is the decimal mark
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Join(ErrInvalidValue, err)
	}
	return d, nil
}

// ParseDate reads a dd/mm/yyyy, ISO or Excel serial date. It returns nil for
// an empty cell.
func ParseDate(value string) (*time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return nil, nil
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial <= 0 {
			return nil, ErrInvalidValue
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return nil, errors.Join(ErrInvalidValue, err)
		}
		d := calendarDate(t)
		return &d, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := calendarDate(t)
			return &d, nil
		}
	}
	return nil, ErrInvalidValue
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
