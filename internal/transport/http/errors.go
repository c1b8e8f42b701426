package http

import (
	"errors"
	"fmt"

	"ghotracker/internal/dataprocessing"
	apierrors "ghotracker/internal/errors"
	"ghotracker/internal/exporter"
	"ghotracker/internal/services"
)

// mapServiceError converts service errors to API errors. Unknown errors pass through.
func mapServiceError(err error, indicator string) error {
	var (
		dsErr    *services.DatasetError
		cleanErr *dataprocessing.CleanError
	)
	switch {
	case errors.As(err, &cleanErr):
		return apierrors.DatasetCorruptedError(cleanErr)
	case errors.As(err, &dsErr):
		return apierrors.DatasetUnavailableError(dsErr.Message(), dsErr.Err)
	case errors.Is(err, services.ErrNoData):
		return apierrors.ErrNoData
	case errors.Is(err, services.ErrUnknownIndicator):
		return apierrors.IndicatorNotFoundError(indicator)
	case errors.Is(err, exporter.ErrUnsupportedFormat):
		return apierrors.ErrValidation("format", fmt.Sprintf("format must be one of: %s, %s", exporter.FormatCSV, exporter.FormatXLSX))
	default:
		return err
	}
}
