package domain

import (
	"time"
)

// BreakdownSeparator joins a dimension type and name into a breakdown label.
// It is an en dash (U+2013) padded with single spaces.
const BreakdownSeparator = " – "

const (
	// DefaultDimensionType is used when a row carries no dimension type
	DefaultDimensionType = "None"
	// DefaultDimensionName is used when a row carries no dimension name
	DefaultDimensionName = "All"
)

// Observation is one cleaned measurement of an indicator for a year and breakdown
type Observation struct {
	IndicatorCode string  `json:"indicator_code"`
	IndicatorName string  `json:"indicator_name"`
	Year          int     `json:"year"`
	Value         float64 `json:"value"`
	Country       string  `json:"country"`
	DimensionType string  `json:"dimension_type"`
	DimensionName string  `json:"dimension_name"`
	Breakdown     string  `json:"breakdown"`
}

// BreakdownLabel builds the breakdown label for a dimension pair.
// Empty parts are replaced by their defaults.
func BreakdownLabel(dimensionType, dimensionName string) string {
	if dimensionType == "" {
		dimensionType = DefaultDimensionType
	}
	if dimensionName == "" {
		dimensionName = DefaultDimensionName
	}
	return dimensionType + BreakdownSeparator + dimensionName
}

// DatasetStats summarises what the cleaner did with the raw rows
type DatasetStats struct {
	RowsRead         int `json:"rows_read"`
	MetadataRows     int `json:"metadata_rows"`
	MissingValueRows int `json:"missing_value_rows"`
	Kept             int `json:"kept"`
}

// Dataset is the immutable, cleaned content of one input file.
// Observations must not be modified by callers; it is shared between readers.
type Dataset struct {
	Path         string        `json:"path"`
	Observations []Observation `json:"-"`
	Stats        DatasetStats  `json:"stats"`
	Country      string        `json:"country,omitempty"`
	LoadedAt     time.Time     `json:"loaded_at"`
}

// Len returns the number of cleaned observations
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Observations)
}
