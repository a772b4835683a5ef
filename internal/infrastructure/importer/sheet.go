package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Common import errors
var (
	ErrEmptyWorkbook = errors.New("workbook contains no sheets")
	ErrMissingHeader = errors.New("sheet is missing a header row")
	ErrNoDataRows    = errors.New("sheet contains no data rows")
)

// RowError describes a problem with a single sheet row. Rows are
// numbered the way the spreadsheet shows them, starting at 1 for the
// header.
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column %q: %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// Sheet is a parsed worksheet with header-based cell access. Header
// matching is case-insensitive and whitespace-trimmed, and a cell can
// be looked up under several alias headers because real exports
// disagree on column names (and spellings).
type Sheet struct {
	headers []string
	index   map[string]int
	rows    [][]string
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// OpenSheet reads the first worksheet of an xlsx workbook.
func OpenSheet(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrMissingHeader
	}
	if len(rows) == 1 {
		return nil, ErrNoDataRows
	}

	s := &Sheet{
		headers: rows[0],
		index:   make(map[string]int, len(rows[0])),
		rows:    rows[1:],
	}
	for i, h := range rows[0] {
		n := normalizeHeader(h)
		if n == "" {
			continue
		}
		// first occurrence wins on duplicate headers
		if _, ok := s.index[n]; !ok {
			s.index[n] = i
		}
	}
	return s, nil
}

// RowCount returns the number of data rows.
func (s *Sheet) RowCount() int {
	return len(s.rows)
}

// HasColumn reports whether any of the alias headers is present.
func (s *Sheet) HasColumn(aliases ...string) bool {
	for _, a := range aliases {
		if _, ok := s.index[normalizeHeader(a)]; ok {
			return true
		}
	}
	return false
}

// Cell returns the trimmed value for the first alias header that has
// a non-empty value in the data row.
func (s *Sheet) Cell(row int, aliases ...string) string {
	if row < 0 || row >= len(s.rows) {
		return ""
	}
	cells := s.rows[row]
	for _, a := range aliases {
		i, ok := s.index[normalizeHeader(a)]
		if !ok || i >= len(cells) {
			continue
		}
		if v := strings.TrimSpace(cells[i]); v != "" {
			return v
		}
	}
	return ""
}

// SheetRow reports the spreadsheet row number for a data row index,
// accounting for the header.
func (s *Sheet) SheetRow(row int) int {
	return row + 2
}
