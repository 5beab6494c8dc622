package dataprocessing

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"surveycli/internal/errors"
	"surveycli/pkg/contracts/domain"
)

const utf8BOM = "\ufeff"

// ReadOptions controls how a raw survey export is read.
type ReadOptions struct {
	// Path is reported in errors; it is not opened by ReadRawTable.
	Path string
	// NullTokens are the cell values read as missing answers.
	NullTokens []string
	// AllText reads workbook cells without number formatting.
	AllText bool
}

// RawTable is one survey export as read from disk: a header and rows of
// uninterpreted text with missing cells resolved against the null tokens.
type RawTable struct {
	Header []string
	Rows   [][]string

	nulls map[string]struct{}
}

func newRawTable(header []string, rows [][]string, nullTokens []string) *RawTable {
	nulls := make(map[string]struct{}, len(nullTokens))
	for _, tok := range nullTokens {
		nulls[tok] = struct{}{}
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	return &RawTable{Header: header, Rows: rows, nulls: nulls}
}

// Len returns the number of data rows.
func (t *RawTable) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of a header column, or -1.
func (t *RawTable) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Value returns a cell as an answer. Cells past the end of a short row and
// cells equal to a null token are missing.
func (t *RawTable) Value(row, col int) domain.Text {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return domain.Null()
	}
	v := t.Rows[row][col]
	if _, isNull := t.nulls[v]; isNull {
		return domain.Null()
	}
	return domain.NewText(v)
}

// ReadRawTable reads a comma separated survey export. Every record must have
// as many fields as the header.
func ReadRawTable(r io.Reader, opts ReadOptions) (*RawTable, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = 0

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewMalformedCSVError(opts.Path, 1, fmt.Errorf("missing header"))
	}
	if err != nil {
		return nil, malformed(opts.Path, err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, malformed(opts.Path, err)
		}
		rows = append(rows, record)
	}

	return newRawTable(header, rows, opts.NullTokens), nil
}

func malformed(path string, err error) error {
	var pe *csv.ParseError
	if stderrors.As(err, &pe) {
		return errors.NewMalformedCSVError(path, pe.Line, pe.Err)
	}
	return errors.NewMalformedCSVError(path, 0, err)
}

// ReadRawWorkbook reads the first sheet of an xlsx survey export. The first
// row is the header.
func ReadRawWorkbook(path string, opts ReadOptions) (*RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewParsingError(fmt.Sprintf("workbook %s has no sheets", path), nil)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: opts.AllText})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, errors.NewParsingError(fmt.Sprintf("workbook %s has no header row", path), nil)
	}

	// excelize trims trailing empty cells; pad so short rows read as empty
	// answers rather than shifting columns.
	header := rows[0]
	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		data = append(data, row)
	}

	return newRawTable(header, data, opts.NullTokens), nil
}

// ReadRawFile reads a survey export by extension: .xlsx as a workbook and
// anything else as CSV.
func ReadRawFile(path string, opts ReadOptions) (*RawTable, error) {
	opts.Path = path
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadRawWorkbook(path, opts)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open survey export: %w", err)
	}
	defer f.Close()

	return ReadRawTable(f, opts)
}
