package xlsximport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowError_Error(t *testing.T) {
	assert.Equal(t, "row 3, column 'Date Facture': bad",
		RowError{Row: 3, Column: "Date Facture", Message: "bad"}.Error())
	assert.Equal(t, "row 3: bad", RowError{Row: 3, Message: "bad"}.Error())
}

func TestRowErrors(t *testing.T) {
	errs := NewRowErrors(2)
	assert.False(t, errs.Truncated())

	errs.Required(2, "CLIENT")
	errs.Malformed(3, "Montant HT", "montant", "abc")
	errs.Duplicate(4, "N° facture", "F001")
	errs.Rejected(5, errors.New("constraint failed"))

	assert.Equal(t, 4, errs.Total())
	assert.True(t, errs.Truncated())
	if assert.Len(t, errs.List(), 2) {
		assert.Equal(t, ErrCodeImportRequiredField, errs.List()[0].Code)
		assert.Equal(t, ErrCodeImportInvalidFormat, errs.List()[1].Code)
		assert.Equal(t, "abc", errs.List()[1].Value)
	}
}

func TestNewRowErrors_DefaultLimit(t *testing.T) {
	errs := NewRowErrors(0)
	for i := 0; i < 150; i++ {
		errs.Required(i, "CLIENT")
	}
	assert.Len(t, errs.List(), 100)
	assert.Equal(t, 150, errs.Total())
}
