package xlsximport

import (
	"errors"
	"fmt"
)

var (
	ErrMissingHeader = errors.New("sheet missing header row")
	ErrSheetNotFound = errors.New("sheet not found")
	ErrEmptyWorkbook = errors.New("workbook contains no sheet")
)

// Row error codes reported back to the user.
const (
	ErrCodeImportRequiredField = "ERR_IMPORT_REQUIRED_FIELD"
	ErrCodeImportInvalidFormat = "ERR_IMPORT_INVALID_FORMAT"
	ErrCodeImportDuplicateInDB = "ERR_IMPORT_DUPLICATE_IN_DB"
	ErrCodeImportRowRejected   = "ERR_IMPORT_ROW_REJECTED"
)

const defaultMaxRowErrors = 100

// RowError locates a problem in the sheet. Row is the 1-based spreadsheet line.
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (e RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Message)
	}
	return fmt.Sprintf("row %d, column '%s': %s", e.Row, e.Column, e.Message)
}

// RowErrors keeps the first limit errors of an import and counts the rest.
type RowErrors struct {
	kept  []RowError
	limit int
	total int
}

func NewRowErrors(limit int) *RowErrors {
	if limit <= 0 {
		limit = defaultMaxRowErrors
	}
	return &RowErrors{limit: limit}
}

func (r *RowErrors) Add(e RowError) {
	r.total++
	if len(r.kept) < r.limit {
		r.kept = append(r.kept, e)
	}
}

func (r *RowErrors) Required(row int, column string) {
	r.Add(RowError{Row: row, Column: column, Code: ErrCodeImportRequiredField,
		Message: fmt.Sprintf("field '%s' is required", column)})
}

func (r *RowErrors) Malformed(row int, column, expected, value string) {
	r.Add(RowError{Row: row, Column: column, Code: ErrCodeImportInvalidFormat,
		Message: "invalid format, expected " + expected, Value: value})
}

func (r *RowErrors) Duplicate(row int, column, value string) {
	r.Add(RowError{Row: row, Column: column, Code: ErrCodeImportDuplicateInDB,
		Message: fmt.Sprintf("value '%s' already exists in database", value), Value: value})
}

// Rejected records a row the database refused after parsing succeeded.
func (r *RowErrors) Rejected(row int, err error) {
	r.Add(RowError{Row: row, Code: ErrCodeImportRowRejected, Message: err.Error()})
}

func (r *RowErrors) List() []RowError { return r.kept }

func (r *RowErrors) Total() int { return r.total }

func (r *RowErrors) Truncated() bool { return r.total > len(r.kept) }
