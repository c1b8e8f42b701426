package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	apierrors "ghotracker/internal/errors"
	"ghotracker/internal/infrastructure"
)

// QueryValidator validates query-parameter structs using struct tags.
// Field names in messages come from the `query` tag.
type QueryValidator struct {
	validator *validator.Validate
	logger    *slog.Logger
}

// NewQueryValidator creates a validator with the dashboard's custom rules
func NewQueryValidator(logger *slog.Logger) *QueryValidator {
	v := validator.New()

	_ = v.RegisterValidation("printable", isPrintable)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if logger == nil {
		logger = slog.Default()
	}

	return &QueryValidator{
		validator: v,
		logger:    infrastructure.WithComponent(logger, "query_validator"),
	}
}

// ValidateStruct validates a struct and returns an *apierrors.APIError listing every failed field
func (m *QueryValidator) ValidateStruct(v interface{}) error {
	err := m.validator.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierrors.InvalidRequestWithError(err)
	}

	validationErrors := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		validationErrors = append(validationErrors, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}

	m.logger.Debug("query validation failed", slog.Int("fields", len(validationErrors)))
	return apierrors.NewValidationErrors(validationErrors)
}

// ParseInt reads an optional integer query parameter. Absent means 0.
func ParseInt(r *http.Request, param string) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(param))
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, apierrors.ErrValidation(param, fmt.Sprintf("%s must be a valid integer", param))
	}
	return n, nil
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "printable":
		return fmt.Sprintf("%s must not contain control characters", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "gtefield":
		return fmt.Sprintf("%s must not be before %s", field, strings.ToLower(param))
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

// isPrintable rejects control characters in free-text parameters
func isPrintable(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
