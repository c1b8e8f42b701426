package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Source column headers of a GHO extract
const (
	ColumnYear          = "YEAR (DISPLAY)"
	ColumnIndicatorCode = "GHO (CODE)"
	ColumnIndicatorName = "GHO (DISPLAY)"
	ColumnNumeric       = "Numeric"
	ColumnCountry       = "COUNTRY (DISPLAY)"
	ColumnDimensionType = "DIMENSION (TYPE)"
	ColumnDimensionName = "DIMENSION (NAME)"
)

var requiredColumns = []string{ColumnYear, ColumnIndicatorCode, ColumnIndicatorName, ColumnNumeric}

// ErrSourceUnreadable is matched by every failure to open or decode the input file
var ErrSourceUnreadable = errors.New("data source unreadable")

// SourceError describes why an input file could not be read
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrSourceUnreadable) hold for every SourceError
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnreadable
}

// RawRow is one data row of the extract with cells addressed by column.
// Line is the 1-based line (CSV) or row (XLSX) number in the source.
type RawRow struct {
	Line          int
	Year          string
	IndicatorCode string
	IndicatorName string
	Numeric       string
	Country       string
	DimensionType string
	DimensionName string
}

// ReadFile reads an extract from disk, choosing the decoder by extension
func ReadFile(path string) ([]RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceError{Path: path, Err: err}
	}
	defer f.Close()

	var rows []RawRow
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		rows, err = ReadXLSX(f)
	} else {
		rows, err = ReadCSV(f)
	}
	if err != nil {
		var se *SourceError
		if errors.As(err, &se) {
			se.Path = path
			return nil, se
		}
		return nil, &SourceError{Path: path, Err: err}
	}
	return rows, nil
}

// ReadCSV decodes a comma separated extract with a header row
func ReadCSV(r io.Reader) ([]RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, &SourceError{Err: errors.New("file is empty")}
		}
		return nil, &SourceError{Err: fmt.Errorf("failed to read header: %w", err)}
	}

	index, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []RawRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &SourceError{Err: fmt.Errorf("failed to read record: %w", err)}
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, index.row(line, record))
	}

	return rows, nil
}

// ReadXLSX decodes the first sheet of a workbook with a header row
func ReadXLSX(r io.Reader) ([]RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &SourceError{Err: fmt.Errorf("failed to open workbook: %w", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &SourceError{Err: errors.New("workbook has no sheets")}
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &SourceError{Err: fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)}
	}
	if len(cells) == 0 {
		return nil, &SourceError{Err: errors.New("file is empty")}
	}

	index, err := mapColumns(cells[0])
	if err != nil {
		return nil, err
	}

	rows := make([]RawRow, 0, len(cells)-1)
	for i, record := range cells[1:] {
		if isBlank(record) {
			continue
		}
		rows = append(rows, index.row(i+2, record))
	}
	return rows, nil
}

// columnIndex maps header names to their first position
type columnIndex map[string]int

func mapColumns(header []string) (columnIndex, error) {
	index := columnIndex{}
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SourceError{Err: fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))}
	}
	return index, nil
}

func (c columnIndex) cell(record []string, column string) string {
	i, ok := c[column]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

func (c columnIndex) row(line int, record []string) RawRow {
	return RawRow{
		Line:          line,
		Year:          c.cell(record, ColumnYear),
		IndicatorCode: c.cell(record, ColumnIndicatorCode),
		IndicatorName: c.cell(record, ColumnIndicatorName),
		Numeric:       c.cell(record, ColumnNumeric),
		Country:       c.cell(record, ColumnCountry),
		DimensionType: c.cell(record, ColumnDimensionType),
		DimensionName: c.cell(record, ColumnDimensionName),
	}
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
