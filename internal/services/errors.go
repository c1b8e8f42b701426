package services

import (
	"errors"
	"fmt"

	"ghotracker/internal/dataprocessing"
)

// Dashboard service errors
var (
	// Dataset errors
	ErrDatasetUnavailable = errors.New("dataset unavailable")

	// Selection errors
	ErrNoData           = errors.New("no data available for this combination of indicator, breakdown, and years")
	ErrUnknownIndicator = dataprocessing.ErrUnknownIndicator
)

// DatasetError reports that the configured dataset could not be served.
// It matches ErrDatasetUnavailable and unwraps to the loader error.
type DatasetError struct {
	Path string
	Err  error
}

func (e *DatasetError) Error() string {
	return fmt.Sprintf("dataset %s unavailable: %v", e.Path, e.Err)
}

func (e *DatasetError) Unwrap() error { return e.Err }

func (e *DatasetError) Is(target error) bool {
	return target == ErrDatasetUnavailable
}

// Message is the text shown to dashboard users in place of the filters
func (e *DatasetError) Message() string {
	if errors.Is(e.Err, dataprocessing.ErrEmptyDataset) {
		return "Data file loaded, but no valid rows after cleaning."
	}
	return fmt.Sprintf("Could not read data file at '%s': %v", e.Path, e.Err)
}

// singleYearNotice is shown when an indicator/breakdown covers only one year
func singleYearNotice(year int) string {
	return fmt.Sprintf("Only data for year %d is available for this indicator/breakdown.", year)
}
