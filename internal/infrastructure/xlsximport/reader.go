package xlsximport

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
)

// Reader reads the rows of one sheet of an xlsx workbook, keyed by header
type Reader struct {
	file       *excelize.File
	sheet      string
	rows       *excelize.Rows
	headers    []string
	headerMap  map[string]int
	currentRow int
	totalRows  int
}

// ReaderOption is a functional option for Reader configuration
type ReaderOption func(*Reader)

// WithSheet selects a sheet by name instead of the first one
func WithSheet(name string) ReaderOption {
	return func(r *Reader) {
		r.sheet = name
	}
}

// Open opens an xlsx file from disk
func Open(path string, opts ...ReaderOption) (*Reader, error) {
	f, err := excelize.OpenFile(path, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	return newReader(f, opts...)
}

// NewReader opens an xlsx workbook from a stream
func NewReader(src io.Reader, opts ...ReaderOption) (*Reader, error) {
	f, err := excelize.OpenReader(src, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return newReader(f, opts...)
}

func newReader(f *excelize.File, opts ...ReaderOption) (*Reader, error) {
	r := &Reader{
		file:      f,
		headerMap: make(map[string]int),
	}
	for _, opt := range opts {
		opt(r)
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		_ = f.Close()
		return nil, ErrEmptyWorkbook
	}
	if r.sheet == "" {
		r.sheet = sheets[0]
	} else if !contains(sheets, r.sheet) {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, r.sheet)
	}

	rows, err := f.Rows(r.sheet)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to read sheet %s: %w", r.sheet, err)
	}
	r.rows = rows
	return r, nil
}

// Sheet returns the name of the sheet being read
func (r *Reader) Sheet() string {
	return r.sheet
}

// ParseHeader reads the first row as header
func (r *Reader) ParseHeader() error {
	if !r.rows.Next() {
		if err := r.rows.Error(); err != nil {
			return fmt.Errorf("failed to read header: %w", err)
		}
		return ErrMissingHeader
	}
	record, err := r.rows.Columns()
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	r.headers = make([]string, 0, len(record))
	for i, h := range record {
		header := NormalizeHeader(h)
		r.headers = append(r.headers, header)
		if header != "" {
			r.headerMap[headerKey(header)] = i
		}
	}
	if len(r.headerMap) == 0 {
		return ErrMissingHeader
	}

	r.currentRow = 1
	return nil
}

// Headers returns the parsed header names
func (r *Reader) Headers() []string {
	return r.headers
}

// HasHeader checks if a header exists, ignoring case and spacing
func (r *Reader) HasHeader(name string) bool {
	_, ok := r.headerMap[headerKey(name)]
	return ok
}

// ValidateHeaders returns the required headers missing from the sheet
func (r *Reader) ValidateHeaders(required []string) []string {
	var missing []string
	for _, h := range required {
		if !r.HasHeader(h) {
			missing = append(missing, h)
		}
	}
	return missing
}

// Row represents a parsed sheet row with its data and line number
type Row struct {
	LineNumber int
	Data       map[string]string
}

// Get returns the value for a column by header name
func (row *Row) Get(header string) string {
	return row.Data[headerKey(header)]
}

// IsEmpty returns true if the row has no non-empty values
func (row *Row) IsEmpty() bool {
	for _, v := range row.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRow reads the next row; io.EOF marks the end of the sheet
func (r *Reader) ReadRow() (*Row, error) {
	if !r.rows.Next() {
		if err := r.rows.Error(); err != nil {
			return nil, fmt.Errorf("error reading row %d: %w", r.currentRow+1, err)
		}
		return nil, io.EOF
	}
	r.currentRow++

	record, err := r.rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("error reading row %d: %w", r.currentRow, err)
	}
	r.totalRows++

	row := &Row{
		LineNumber: r.currentRow,
		Data:       make(map[string]string, len(r.headerMap)),
	}
	for key, i := range r.headerMap {
		if i < len(record) {
			row.Data[key] = strings.TrimSpace(record[i])
		} else {
			row.Data[key] = ""
		}
	}
	return row, nil
}

// CurrentRow returns the current row number (1-indexed, header is 1)
func (r *Reader) CurrentRow() int {
	return r.currentRow
}

// TotalRows returns the total number of data rows read
func (r *Reader) TotalRows() int {
	return r.totalRows
}

// Close releases the row iterator and the workbook
func (r *Reader) Close() error {
	if r.rows != nil {
		if err := r.rows.Close(); err != nil {
			_ = r.file.Close()
			return err
		}
	}
	return r.file.Close()
}

// NormalizeHeader trims a header cell and collapses inner whitespace,
// non-breaking spaces included
func NormalizeHeader(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

func headerKey(s string) string {
	return strings.ToLower(NormalizeHeader(s))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
