package exporter

import (
	"io"

	"ghotracker/pkg/contracts/domain"
)

// Table is a named grid of cells. Cells are string, int, float64, bool or time.Time.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// TrendTable lays out yearly points as year/value rows
func TrendTable(sel domain.Selection, points []domain.YearlyPoint) Table {
	rows := make([][]interface{}, 0, len(points))
	for _, p := range points {
		rows = append(rows, []interface{}{sel.Indicator, sel.Breakdown, p.Year, p.Value})
	}
	return Table{
		Name:    "Yearly values",
		Headers: []string{"indicator", "breakdown", "year", "value"},
		Rows:    rows,
	}
}

// InterestTable lays out search interest as date/value rows
func InterestTable(si domain.SearchInterest) Table {
	rows := make([][]interface{}, 0, len(si.Points))
	for _, p := range si.Points {
		rows = append(rows, []interface{}{si.Term, p.Date, p.Value})
	}
	return Table{
		Name:    "Search interest",
		Headers: []string{"term", "date", "value"},
		Rows:    rows,
	}
}

// Write renders the table in the requested format
func Write(w io.Writer, format Format, table Table) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, table, WriteOptions{BOMPrefix: true})
	case FormatXLSX:
		return WriteXLSX(w, table)
	default:
		return ErrUnsupportedFormat
	}
}
