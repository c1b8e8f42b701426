package dataprocessing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"ghotracker/pkg/contracts/domain"
)

// ErrEmptyDataset is returned when no observation survives cleaning
var ErrEmptyDataset = errors.New("no valid rows after cleaning")

// metadataPrefix marks GHO metadata rows embedded in the data
const metadataPrefix = "#"

// missingTokens are the cell values read as "no value", matching the usual
// NA spellings found in exported extracts.
var missingTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// CleanError reports a kept row that violates a dataset integrity rule
type CleanError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *CleanError) Error() string {
	return fmt.Sprintf("line %d: invalid %s %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *CleanError) Unwrap() error { return e.Err }

// Clean converts raw rows into observations.
//
// Rows whose year or indicator code starts with "#" are metadata and dropped.
// Rows without a usable numeric value are dropped. A remaining row whose year
// is not an integer aborts cleaning with a *CleanError. Input order is kept
// and duplicates are not collapsed.
func Clean(rows []RawRow) ([]domain.Observation, domain.DatasetStats, error) {
	stats := domain.DatasetStats{RowsRead: len(rows)}
	out := make([]domain.Observation, 0, len(rows))

	for _, row := range rows {
		if strings.HasPrefix(row.Year, metadataPrefix) || strings.HasPrefix(row.IndicatorCode, metadataPrefix) {
			stats.MetadataRows++
			continue
		}

		value, ok := parseValue(row.Numeric)
		if !ok {
			stats.MissingValueRows++
			continue
		}

		year, err := parseYear(row.Year)
		if err != nil {
			return nil, stats, &CleanError{Line: row.Line, Column: ColumnYear, Value: row.Year, Err: err}
		}

		dimType := cellOr(row.DimensionType, domain.DefaultDimensionType)
		dimName := cellOr(row.DimensionName, domain.DefaultDimensionName)

		out = append(out, domain.Observation{
			IndicatorCode: row.IndicatorCode,
			IndicatorName: row.IndicatorName,
			Year:          year,
			Value:         value,
			Country:       row.Country,
			DimensionType: dimType,
			DimensionName: dimName,
			Breakdown:     domain.BreakdownLabel(dimType, dimName),
		})
	}

	stats.Kept = len(out)
	return out, stats, nil
}

// cellOr returns the trimmed cell, or def when the cell holds a missing token
func cellOr(raw, def string) string {
	s := strings.TrimSpace(raw)
	if _, missing := missingTokens[s]; missing {
		return def
	}
	return s
}

// parseValue returns the cell as a finite float, or false when it is missing
func parseValue(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if _, missing := missingTokens[s]; missing {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseYear accepts "2015" as well as spreadsheet renderings like "2015.0"
func parseYear(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, errors.New("year is empty")
	}
	if y, err := strconv.Atoi(s); err == nil {
		return y, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("not a number")
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, errors.New("not a whole year")
	}
	return int(f), nil
}
